package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"policyminer/common"
	"policyminer/config"
)

// RegisterUploadRoutes registers the file upload endpoints.
func RegisterUploadRoutes(r *gin.Engine) {
	g := r.Group("/api/v1/upload")
	g.GET("", handleUploadInfo)
	g.POST("", handleUpload)
}

func handleUploadInfo(c *gin.Context) {
	c.String(http.StatusOK, "Upload Route")
}

// handleUpload accepts a single multipart file field, stores it under the
// upload directory, and mirrors it to S3 when configured.
func handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required: " + err.Error()})
		return
	}

	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory: " + err.Error()})
		return
	}

	name := filepath.Base(file.Filename)
	dest := filepath.Join(config.UploadDir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file: " + err.Error()})
		return
	}
	log.Printf("Stored upload %s (%d bytes)", dest, file.Size)

	mirrorUploadToS3(dest, name)

	c.String(http.StatusOK, "File Uploaded")
}

// mirrorUploadToS3 copies the stored file to S3 when S3_BUCKET is set.
// An existing object at the key is left untouched rather than overwritten.
// Mirror failures are logged; the upload itself already succeeded.
func mirrorUploadToS3(path, name string) {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := common.NewS3(ctx, common.S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	})
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (upload mirror skipped)", err)
		return
	}

	key := "uploads/" + name
	if exists, err := client.Exists(ctx, bucket, key); err != nil {
		log.Printf("Warning: failed to check s3://%s/%s: %v (mirror skipped)", bucket, key, err)
		return
	} else if exists {
		log.Printf("Warning: s3://%s/%s already exists; mirror skipped", bucket, key)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: failed to reopen upload for mirror: %v", err)
		return
	}
	defer f.Close()

	if err := client.Put(ctx, bucket, key, f, ""); err != nil {
		log.Printf("Warning: S3 mirror failed for %s: %v", key, err)
		return
	}
	log.Printf("Mirrored upload to s3://%s/%s", bucket, key)
}
