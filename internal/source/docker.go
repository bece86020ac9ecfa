package source

import "context"

// DockerAdapter follows a container's logs with docker logs -f
type DockerAdapter struct {
	Container string
}

// NewDockerAdapter creates an adapter for a Docker container.
// The container name is validated against option injection.
func NewDockerAdapter(container string) (*DockerAdapter, error) {
	if err := validateName("container", container); err != nil {
		return nil, err
	}
	return &DockerAdapter{Container: container}, nil
}

// Tail streams container logs until cancelled
func (a *DockerAdapter) Tail(ctx context.Context, emit Emit) {
	tailCommand(ctx, emit, "docker", "logs", "-f", "--tail", DefaultTailLines, a.Container)
}

// DisplayName returns the container name
func (a *DockerAdapter) DisplayName() string {
	return "docker:" + a.Container
}
