package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/logmux/logmux/internal/config"
	"github.com/logmux/logmux/internal/debuglog"
	"github.com/logmux/logmux/internal/source"
	"github.com/logmux/logmux/internal/ui"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts sourceOptions

	cmd := &cobra.Command{
		Use:     "logmux [files...]",
		Short:   "Tail and explore multiple log streams side by side",
		Version: version,
		Long: `logmux merges log streams from files, docker containers, kubernetes
pods, and remote hosts into one interactive viewer with per-pane
filtering, bookmarks, and split views.`,
		Example: `  logmux app.log worker.log
  logmux --docker web --docker db
  logmux --k8s my-pod -n staging app.log
  logmux --ssh host:/var/log/syslog
  logmux --all-containers`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = args
			return run(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.containers, "docker", nil, "docker container to follow (repeatable)")
	f.StringArrayVar(&opts.pods, "k8s", nil, "kubernetes pod to follow (repeatable)")
	f.StringVarP(&opts.namespace, "namespace", "n", "", "kubernetes namespace for --k8s and --all-pods")
	f.StringVarP(&opts.k8sContainer, "container", "c", "", "container within --k8s pods")
	f.StringArrayVar(&opts.remotes, "ssh", nil, "remote file as host:path (repeatable)")
	f.BoolVar(&opts.allContainers, "all-containers", false, "follow every running docker container")
	f.BoolVar(&opts.allPods, "all-pods", false, "follow every pod in the namespace")

	return cmd
}

func run(ctx context.Context, opts *sourceOptions) error {
	closeLog := debuglog.Init()
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	adapters, descs, err := buildSources(ctx, opts)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		return fmt.Errorf("no sources given; pass files or --docker/--k8s/--ssh")
	}

	mux := source.NewMux(cfg.Buffer.ChannelBuffer)
	for i, a := range adapters {
		mux.AddSource(i, a)
	}

	model := ui.NewModel(cfg, mux, descs)
	defer model.Close()

	debuglog.Info("starting", "sources", len(adapters), "version", version)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
