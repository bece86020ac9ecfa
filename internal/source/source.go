// Package source tails external log producers and merges their output
// into a single ordered event stream.
//
// Each adapter wraps one producer: a local file, a Docker container, a
// Kubernetes pod, or a remote file over SSH. Adapters know nothing about
// filtering or buffering; they turn a subprocess's stdout into events.
package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/logmux/logmux/pkg/logline"
)

// DefaultChannelBuffer is the merged event channel capacity. This is the
// only buffering between producers and the consumer loop; a full channel
// blocks producers (backpressure) rather than dropping lines.
const DefaultChannelBuffer = 1000

// DefaultTailLines is how much history to request from sources that
// support it (docker logs, kubectl logs, remote tail).
const DefaultTailLines = "1000"

// EventKind discriminates source events
type EventKind int

const (
	// EventLine carries one ingested record
	EventLine EventKind = iota
	// EventError reports a non-fatal producer failure
	EventError
	// EventEnd marks the end of a source's stream
	EventEnd
)

// Event is one item produced by a source adapter
type Event struct {
	Kind   EventKind
	Record logline.Record // set when Kind == EventLine
	Err    string         // set when Kind == EventError
}

// SourcedEvent tags an event with the source that produced it
type SourcedEvent struct {
	SourceID int
	Event    Event
}

// Emit delivers one event to the multiplexer. It blocks while the merged
// channel is full and returns false once the multiplexer is shutting
// down, at which point the adapter should stop producing.
type Emit func(Event) bool

// Adapter is one external log producer
type Adapter interface {
	// Tail streams events until the producer ends or ctx is cancelled.
	// Cancelling ctx must terminate any subprocess the adapter owns.
	Tail(ctx context.Context, emit Emit)

	// DisplayName identifies the source in the UI and in error messages
	DisplayName() string
}

// Kind classifies how a source is obtained
type Kind int

const (
	KindFile Kind = iota
	KindContainer
	KindWorkload
	KindRemoteFile
)

// Descriptor describes a configured source. Descriptors are append-only
// for the process lifetime; sources are hidden per pane, never removed.
type Descriptor struct {
	ID   int
	Kind Kind
	Name string
}

// DescribeFile builds a descriptor for a local file source
func DescribeFile(id int, path string) Descriptor {
	return Descriptor{ID: id, Kind: KindFile, Name: filepath.Base(path)}
}

// DescribeContainer builds a descriptor for a Docker container source
func DescribeContainer(id int, container string) Descriptor {
	return Descriptor{ID: id, Kind: KindContainer, Name: "docker:" + container}
}

// DescribeWorkload builds a descriptor for a Kubernetes pod source
func DescribeWorkload(id int, pod, namespace, container string) Descriptor {
	name := "k8s:" + pod
	switch {
	case namespace != "" && container != "":
		name = fmt.Sprintf("k8s:%s/%s/%s", namespace, pod, container)
	case namespace != "":
		name = fmt.Sprintf("k8s:%s/%s", namespace, pod)
	case container != "":
		name = fmt.Sprintf("k8s:%s/%s", pod, container)
	}
	return Descriptor{ID: id, Kind: KindWorkload, Name: name}
}

// DescribeRemoteFile builds a descriptor for an SSH-tailed remote file
func DescribeRemoteFile(id int, host, path string) Descriptor {
	return Descriptor{ID: id, Kind: KindRemoteFile, Name: fmt.Sprintf("ssh:%s:%s", host, path)}
}
