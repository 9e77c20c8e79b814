package main

import (
	"context"
	"fmt"
	"log"

	"biblib/core/backup"
	"biblib/core/config"
	"biblib/core/storage"
)

// Lists the backup snapshots mirrored to object storage.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.Storage.Enabled {
		log.Fatal("storage.enabled is false, nothing is mirrored")
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	m := backup.NewMirror(client, cfg.Storage.Bucket, cfg.Storage.Prefix, cfg.Storage.Region)
	snapshots, err := m.List(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== %d snapshots in %s/%s ===\n", len(snapshots), cfg.Storage.Bucket, cfg.Storage.Prefix)
	for _, s := range snapshots {
		fmt.Println(s)
	}
	if keep := cfg.Backup.Keep; keep > 0 && len(snapshots) > keep {
		fmt.Printf("\n%d snapshots exceed backup.keep=%d and will be pruned on the next write\n", len(snapshots)-keep, keep)
	}
}
