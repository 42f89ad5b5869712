package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Pascal-138/GroceryAssistant/config"
)

// ImageService stores recipe images submitted as embedded base64 payloads.
// With an S3 config it uploads to the bucket; without one it writes to a
// local media directory.
type ImageService struct {
	s3Config *config.S3Config
	mediaDir string
}

// NewImageService creates a new ImageService instance. s3Config may be nil.
func NewImageService(s3Config *config.S3Config, mediaDir string) *ImageService {
	if mediaDir == "" {
		mediaDir = "media/recipes"
	}
	return &ImageService{
		s3Config: s3Config,
		mediaDir: mediaDir,
	}
}

// StoreBase64Image decodes a "data:image/...;base64,..." (or bare base64)
// payload and persists it, returning the stored image URL.
func (s *ImageService) StoreBase64Image(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	ext := "png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("malformed image payload")
		}
		if strings.Contains(parts[0], "image/jpeg") {
			ext = "jpg"
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	fileName := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)
	if s.s3Config != nil {
		return s.uploadToS3(ctx, raw, fileName, ext)
	}
	return s.writeLocal(raw, fileName)
}

func (s *ImageService) uploadToS3(ctx context.Context, data []byte, fileName, ext string) (string, error) {
	contentType := "image/png"
	if ext == "jpg" {
		contentType = "image/jpeg"
	}

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] uploaded image to S3: %s", url)
	return url, nil
}

func (s *ImageService) writeLocal(data []byte, fileName string) (string, error) {
	path := filepath.Join(s.mediaDir, filepath.Base(fileName))
	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(path), nil
}
