package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const metadataFileName = "metadata.json"
const metadataS3Key = "data/metadata.json"

// GenerateMetadata - データディレクトリのファイル一覧と更新日時を取得
func GenerateMetadata(dir string) (map[string]string, error) {
	metadata := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("⚠️ Failed to access path: %s (%v)", path, err)
			return nil
		}

		if info.IsDir() {
			return nil
		}

		// dir からの相対パスをキーにする
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			log.Printf("⚠️ Failed to get relative path for: %s (%v)", path, err)
			return nil
		}

		metadata[relPath] = info.ModTime().Format(time.RFC3339)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("❌ Failed to scan directory: %w", err)
	}

	return metadata, nil
}

// SaveMetadata - metadata.json をローカルに保存
func SaveMetadata(metadataPath string, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal metadata.json: %w", err)
	}

	err = os.WriteFile(metadataPath, data, 0644)
	if err != nil {
		return fmt.Errorf("❌ Failed to write metadata.json: %w", err)
	}

	return nil
}

// LoadMetadata - metadata.json をロード
func LoadMetadata(metadataPath string) (map[string]string, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to read metadata.json: %w", err)
	}

	var metadata map[string]string
	err = json.Unmarshal(data, &metadata)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to parse metadata.json: %w", err)
	}

	return metadata, nil
}

func MetadataPath(config model.Config) string {
	return filepath.Join(config.DataDir, metadataFileName)
}

func UploadMetadataToS3(s3Client *s3.Client, config model.Config) error {
	metadataPath := MetadataPath(config)

	file, err := os.Open(metadataPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open %s: %w", metadataPath, err)
	}
	defer file.Close()

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(metadataS3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", metadataS3Key, err)
	}

	log.Printf("✅ %s uploaded to S3!", metadataS3Key)
	return nil
}

func DownloadMetadataFromS3(s3Client *s3.Client, config model.Config) (map[string]string, error) {
	resp, err := s3Client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(metadataS3Key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			log.Printf("⚠️ No %s found on S3, returning empty metadata.", metadataS3Key)
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to download %s from S3: %w", metadataS3Key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to read %s from S3: %w", metadataS3Key, err)
	}

	var metadata map[string]string
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("❌ Failed to parse remote metadata: %w", err)
	}

	return metadata, nil
}

// DetectChanges - ローカルと S3 のメタデータを比較して同期対象を返す
func DetectChanges(localMeta, remoteMeta map[string]string, source string) []string {
	var filesToSync []string

	for file, remoteTimeStr := range remoteMeta {
		// metadata.json は比較対象外
		if file == metadataFileName {
			continue
		}

		localTimeStr, exists := localMeta[file]

		// ローカルに存在しないファイル (S3 にあるがローカルにない)
		if !exists {
			if source == "s3" {
				filesToSync = append(filesToSync, file)
			}
			continue
		}

		remoteTime, err := time.Parse(time.RFC3339, remoteTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse remote timestamp for %s: %v", file, err)
			continue
		}

		localTime, err := time.Parse(time.RFC3339, localTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse local timestamp for %s: %v", file, err)
			continue
		}

		// S3 の方が新しければ pull
		if source == "s3" && remoteTime.After(localTime.Add(1*time.Second)) {
			filesToSync = append(filesToSync, file)
		}

		// ローカルの方が新しければ push
		if source == "local" && localTime.After(remoteTime.Add(1*time.Second)) {
			filesToSync = append(filesToSync, file)
		}
	}

	// ローカルにあるが S3 にないファイルを追加 (push の場合)
	if source == "local" {
		for file := range localMeta {
			if file == metadataFileName {
				continue
			}
			if _, exists := remoteMeta[file]; !exists {
				filesToSync = append(filesToSync, file)
			}
		}
	}

	return filesToSync
}
