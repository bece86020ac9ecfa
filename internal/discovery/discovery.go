// Package discovery lists running containers and workloads so they can
// be attached as log sources without naming each one.
package discovery

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RunningContainers returns the names of running docker containers.
func RunningContainers(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "docker", "ps", "--format", "{{.Names}}").Output()
	if err != nil {
		return nil, fmt.Errorf("docker ps: %w", err)
	}
	return parseNameLines(string(out)), nil
}

// RunningPods returns the pod names in a namespace.
func RunningPods(ctx context.Context, namespace string) ([]string, error) {
	args := []string{"get", "pods", "--no-headers", "-o", "custom-columns=:metadata.name"}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	out, err := exec.CommandContext(ctx, "kubectl", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("kubectl get pods: %w", err)
	}
	return parseNameLines(string(out)), nil
}

// parseNameLines splits command output into trimmed, non-empty names.
func parseNameLines(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
