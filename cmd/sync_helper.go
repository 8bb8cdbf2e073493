package cmd

import (
	"fmt"
	"log"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/util"
)

// SyncWithS3 - S3 との同期処理。データディレクトリ1つ分のメタデータ差分で
// 変更があったファイルだけを転送する
func SyncWithS3(config model.Config, direction string) error {
	if !config.Sync.Enable {
		return fmt.Errorf("sync is disabled (set `sync.enable: true` in config.yaml)")
	}

	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	if direction == "pull" {
		log.Println("🔄 Downloading metadata from S3...")

		remoteMetadata, err := util.DownloadMetadataFromS3(s3Client, config)
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata.json from S3: %w", err)
		}

		localMetadata, _ := util.LoadMetadata(util.MetadataPath(config))

		fileList := util.DetectChanges(localMetadata, remoteMetadata, "s3")
		if len(fileList) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Downloading changed files from S3...")
			if err := util.SyncFilesToS3(config, "pull", fileList); err != nil {
				return fmt.Errorf("❌ Sync failed: %w", err)
			}
		}

		log.Println("🔄 Saving updated metadata...")
		if err := util.SaveMetadata(util.MetadataPath(config), remoteMetadata); err != nil {
			return fmt.Errorf("❌ Failed to save metadata.json: %w", err)
		}

		log.Println("✅ Sync completed successfully.")
		return nil

	} else if direction == "push" {
		log.Println("🔄 Generating metadata for push...")

		localMetadata, err := util.GenerateMetadata(config.DataDir)
		if err != nil {
			return fmt.Errorf("❌ Failed to generate metadata.json: %w", err)
		}
		if err := util.SaveMetadata(util.MetadataPath(config), localMetadata); err != nil {
			return fmt.Errorf("❌ Failed to save metadata.json: %w", err)
		}

		remoteMetadata, err := util.DownloadMetadataFromS3(s3Client, config)
		if err != nil {
			return fmt.Errorf("❌ Failed to download metadata.json from S3: %w", err)
		}

		fileList := util.DetectChanges(localMetadata, remoteMetadata, "local")
		if len(fileList) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Uploading changed files to S3...")
			if err := util.SyncFilesToS3(config, "push", fileList); err != nil {
				return fmt.Errorf("❌ Sync failed: %w", err)
			}
		}

		log.Println("🔄 Uploading metadata to S3...")
		if err := util.UploadMetadataToS3(s3Client, config); err != nil {
			return fmt.Errorf("❌ Failed to upload metadata.json: %w", err)
		}

		log.Println("✅ Sync completed successfully.")
		return nil
	}

	return fmt.Errorf("❌ Unknown sync direction: %s", direction)
}

// ShowSyncStatus - ローカルとS3の差分を表示するだけ（転送はしない）
func ShowSyncStatus(config model.Config) error {
	if !config.Sync.Enable {
		return fmt.Errorf("sync is disabled (set `sync.enable: true` in config.yaml)")
	}

	s3Client, err := util.NewS3Client(config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	localMetadata, err := util.GenerateMetadata(config.DataDir)
	if err != nil {
		return fmt.Errorf("❌ Failed to generate metadata.json: %w", err)
	}

	remoteMetadata, err := util.DownloadMetadataFromS3(s3Client, config)
	if err != nil {
		return fmt.Errorf("❌ Failed to download metadata.json from S3: %w", err)
	}

	toPush := util.DetectChanges(localMetadata, remoteMetadata, "local")
	toPull := util.DetectChanges(localMetadata, remoteMetadata, "s3")

	if len(toPush) == 0 && len(toPull) == 0 {
		fmt.Println("✅ Everything is up-to-date.")
		return nil
	}

	if len(toPush) > 0 {
		fmt.Println("⬆️  Push 対象:")
		for _, file := range toPush {
			fmt.Printf("   %s\n", file)
		}
	}
	if len(toPull) > 0 {
		fmt.Println("⬇️  Pull 対象:")
		for _, file := range toPull {
			fmt.Printf("   %s\n", file)
		}
	}
	return nil
}
