package main

import (
	"context"
	"testing"
)

func TestBuildSourcesAssignsIDsInOrder(t *testing.T) {
	opts := &sourceOptions{
		files:      []string{"a.log", "b.log"},
		containers: []string{"web"},
		remotes:    []string{"host:/var/log/syslog"},
	}
	adapters, descs, err := buildSources(context.Background(), opts)
	if err != nil {
		t.Fatalf("buildSources: %v", err)
	}
	if len(adapters) != 4 || len(descs) != 4 {
		t.Fatalf("got %d adapters, %d descriptors, want 4 each", len(adapters), len(descs))
	}
	wantNames := []string{"a.log", "b.log", "docker:web", "ssh:host:/var/log/syslog"}
	for i, d := range descs {
		if d.ID != i {
			t.Errorf("descriptor %d has id %d", i, d.ID)
		}
		if d.Name != wantNames[i] {
			t.Errorf("descriptor %d name = %q, want %q", i, d.Name, wantNames[i])
		}
	}
}

func TestBuildSourcesRejectsBadInput(t *testing.T) {
	for _, opts := range []*sourceOptions{
		{containers: []string{"-rm"}},
		{remotes: []string{"nopath"}},
		{remotes: []string{":/var/log/syslog"}},
		{pods: []string{""}},
	} {
		if _, _, err := buildSources(context.Background(), opts); err == nil {
			t.Errorf("buildSources(%+v) succeeded, want error", opts)
		}
	}
}

func TestParseRemote(t *testing.T) {
	host, path, err := parseRemote("db01:/var/log/app.log")
	if err != nil {
		t.Fatalf("parseRemote: %v", err)
	}
	if host != "db01" || path != "/var/log/app.log" {
		t.Errorf("got %q, %q", host, path)
	}
}
