package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/logmux/logmux/internal/discovery"
	"github.com/logmux/logmux/internal/source"
)

type sourceOptions struct {
	files         []string
	containers    []string
	pods          []string
	namespace     string
	k8sContainer  string
	remotes       []string
	allContainers bool
	allPods       bool
}

// buildSources turns the command line into adapters plus matching
// descriptors, ids assigned in order.
func buildSources(ctx context.Context, opts *sourceOptions) ([]source.Adapter, []source.Descriptor, error) {
	var adapters []source.Adapter
	var descs []source.Descriptor
	add := func(a source.Adapter, describe func(id int) source.Descriptor) {
		id := len(adapters)
		adapters = append(adapters, a)
		descs = append(descs, describe(id))
	}

	for _, path := range opts.files {
		path := path
		add(source.NewFileAdapter(path), func(id int) source.Descriptor {
			return source.DescribeFile(id, path)
		})
	}

	containers := opts.containers
	if opts.allContainers {
		found, err := discovery.RunningContainers(ctx)
		if err != nil {
			return nil, nil, err
		}
		containers = append(containers, found...)
	}
	for _, name := range containers {
		name := name
		a, err := source.NewDockerAdapter(name)
		if err != nil {
			return nil, nil, fmt.Errorf("--docker %s: %w", name, err)
		}
		add(a, func(id int) source.Descriptor {
			return source.DescribeContainer(id, name)
		})
	}

	pods := opts.pods
	if opts.allPods {
		found, err := discovery.RunningPods(ctx, opts.namespace)
		if err != nil {
			return nil, nil, err
		}
		pods = append(pods, found...)
	}
	for _, pod := range pods {
		pod := pod
		a, err := source.NewKubectlAdapter(pod, opts.namespace, opts.k8sContainer)
		if err != nil {
			return nil, nil, fmt.Errorf("--k8s %s: %w", pod, err)
		}
		add(a, func(id int) source.Descriptor {
			return source.DescribeWorkload(id, pod, opts.namespace, opts.k8sContainer)
		})
	}

	for _, remote := range opts.remotes {
		host, path, err := parseRemote(remote)
		if err != nil {
			return nil, nil, err
		}
		a, err := source.NewSSHAdapter(host, path)
		if err != nil {
			return nil, nil, fmt.Errorf("--ssh %s: %w", remote, err)
		}
		add(a, func(id int) source.Descriptor {
			return source.DescribeRemoteFile(id, host, path)
		})
	}

	return adapters, descs, nil
}

// parseRemote splits a host:path target.
func parseRemote(remote string) (host, path string, err error) {
	i := strings.Index(remote, ":")
	if i <= 0 || i == len(remote)-1 {
		return "", "", fmt.Errorf("--ssh %q: want host:path", remote)
	}
	return remote[:i], remote[i+1:], nil
}
