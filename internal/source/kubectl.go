package source

import "context"

// KubectlAdapter follows a pod's logs with kubectl logs -f
type KubectlAdapter struct {
	Pod       string
	Namespace string // optional, defaults to current context
	Container string // optional, needed for multi-container pods
}

// NewKubectlAdapter creates an adapter for a Kubernetes pod
func NewKubectlAdapter(pod, namespace, container string) (*KubectlAdapter, error) {
	if err := validateName("pod", pod); err != nil {
		return nil, err
	}
	return &KubectlAdapter{Pod: pod, Namespace: namespace, Container: container}, nil
}

// Tail streams pod logs until cancelled
func (a *KubectlAdapter) Tail(ctx context.Context, emit Emit) {
	args := []string{"logs", "-f", "--tail=" + DefaultTailLines}
	if a.Namespace != "" {
		args = append(args, "-n", a.Namespace)
	}
	args = append(args, a.Pod)
	if a.Container != "" {
		args = append(args, "-c", a.Container)
	}
	tailCommand(ctx, emit, "kubectl", args...)
}

// DisplayName returns the k8s-prefixed pod identifier
func (a *KubectlAdapter) DisplayName() string {
	return DescribeWorkload(0, a.Pod, a.Namespace, a.Container).Name
}
