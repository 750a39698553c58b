// Copyright © 2025 The guestfix authors

package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"golang.org/x/sync/errgroup"

	"github.com/vmshift/guestfix/fixer"
	"github.com/vmshift/guestfix/guestfs"
	"github.com/vmshift/guestfix/pkg/config"
	"github.com/vmshift/guestfix/recovery"
	"github.com/vmshift/guestfix/reporter"
	"github.com/vmshift/guestfix/rootfs"
)

func main() {
	cfg, err := config.Load(os.Getenv("GUESTFIX_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyEnv()
	if len(os.Args) > 1 {
		cfg.Images = os.Args[1:]
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("Images:", strings.Join(cfg.Images, ", "))
	log.Println("Mode:", cfg.FstabMode)
	log.Println("Dry run:", cfg.DryRun)
	log.Println("Workers:", cfg.Workers)

	ctx := context.Background()
	events := make(chan string, 64)
	if reporter.IsRunningInPod() {
		rep, err := reporter.NewReporter()
		if err != nil {
			log.Fatalf("Failed to set up pod reporter: %v", err)
		}
		rep.UpdatePodEvents(ctx, events)
		defer func() {
			_ = rep.CreateKubernetesEvent(ctx, corev1.EventTypeNormal, "GuestFix", "guestfix run finished")
		}()
	} else {
		// Drain events locally; fixers always send.
		go func() {
			for range events {
			}
		}()
	}

	// Each worker owns its image, guestfs session and mount state
	// exclusively; nothing is shared across images.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, image := range cfg.Images {
		image := image
		g.Go(func() error {
			return fixImage(ctx, cfg, image, events)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Guest fix failed: %v", err)
	}
	close(events)
	log.Println("All images processed successfully")
}

func fixImage(ctx context.Context, cfg config.Config, image string, events chan<- string) error {
	base := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
	rec, err := recovery.NewManager(filepath.Join(cfg.WorkDir, base))
	if err != nil {
		return err
	}

	reportPath := ""
	if cfg.ReportDir != "" {
		reportPath = filepath.Join(cfg.ReportDir, base+".report.json")
	}

	f := &fixer.Fixer{
		Image:      image,
		DryRun:     cfg.DryRun,
		NoBackup:   cfg.NoBackup,
		Mode:       cfg.Mode(),
		ReportPath: reportPath,
		LUKS:       luksOptions(cfg),
		Guest:      guestfs.NewClient(image, cfg.DryRun),
		Recovery:   rec,

		EventReporter: events,
	}
	_, err = f.Run(ctx)
	return err
}

func luksOptions(cfg config.Config) rootfs.LUKSOptions {
	return rootfs.LUKSOptions{
		Enabled:       cfg.LUKS.Enabled,
		PassphraseEnv: cfg.LUKS.PassphraseEnv,
		Keyfile:       cfg.LUKS.Keyfile,
		MapperPrefix:  cfg.LUKS.MapperPrefix,
	}
}
