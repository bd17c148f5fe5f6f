package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/semaglide/backend/internal/azure"
)

// Manual smoke test for the blob storage containers. Run it against a
// real storage account before pointing a new environment at one.
func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Get credentials from environment
	storageAccountName := os.Getenv("AZURE_STORAGE_ACCOUNT_NAME")
	storageAccountKey := os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")

	photoContainer := os.Getenv("AZURE_STORAGE_PHOTO_CONTAINER")
	if photoContainer == "" {
		photoContainer = "injection-photos"
	}
	reportContainer := os.Getenv("AZURE_STORAGE_REPORT_CONTAINER")
	if reportContainer == "" {
		reportContainer = "progress-reports"
	}

	if storageAccountName == "" || storageAccountKey == "" {
		logger.Fatal("Missing Azure Storage credentials. Set AZURE_STORAGE_ACCOUNT_NAME and AZURE_STORAGE_ACCOUNT_KEY")
	}

	ctx := context.Background()

	logger.Info("=== Testing photo container ===", zap.String("container", photoContainer))
	if err := testPhotoContainer(ctx, storageAccountName, storageAccountKey, photoContainer, logger); err != nil {
		logger.Error("Photo container test failed", zap.Error(err))
	} else {
		logger.Info("Photo container test passed")
	}

	logger.Info("=== Testing report container ===", zap.String("container", reportContainer))
	if err := testReportContainer(ctx, storageAccountName, storageAccountKey, reportContainer, logger); err != nil {
		logger.Error("Report container test failed", zap.Error(err))
	} else {
		logger.Info("Report container test passed")
	}

	logger.Info("=== All tests completed ===")
}

func testPhotoContainer(ctx context.Context, accountName, accountKey, containerName string, logger *zap.Logger) error {
	client, err := azure.NewBlobStorageClient(accountName, accountKey, containerName, logger)
	if err != nil {
		return fmt.Errorf("failed to create Blob Storage client: %w", err)
	}

	testPhotoData := []byte("fake jpeg bytes for round-trip verification")
	testFilename := fmt.Sprintf("test-photo-%d.jpg", time.Now().Unix())

	logger.Info("Testing photo upload", zap.String("filename", testFilename))

	blobName, err := client.UploadPhoto(ctx, testFilename, strings.NewReader(string(testPhotoData)))
	if err != nil {
		return fmt.Errorf("photo upload failed: %w", err)
	}

	logger.Info("Photo uploaded successfully", zap.String("blob_name", blobName))

	logger.Info("Testing photo download", zap.String("blob_name", blobName))

	downloadedData, err := client.DownloadPhoto(ctx, blobName)
	if err != nil {
		return fmt.Errorf("photo download failed: %w", err)
	}

	if string(downloadedData) != string(testPhotoData) {
		return fmt.Errorf("downloaded data doesn't match uploaded data")
	}

	logger.Info("Photo downloaded and verified successfully",
		zap.Int("size_bytes", len(downloadedData)),
	)

	return nil
}

func testReportContainer(ctx context.Context, accountName, accountKey, containerName string, logger *zap.Logger) error {
	client, err := azure.NewBlobStorageClient(accountName, accountKey, containerName, logger)
	if err != nil {
		return fmt.Errorf("failed to create Blob Storage client: %w", err)
	}

	testPDFData := []byte("%PDF-1.4\nTest PDF content")
	testPDFFilename := fmt.Sprintf("test-report-%d.pdf", time.Now().Unix())

	logger.Info("Testing PDF upload", zap.String("filename", testPDFFilename))

	pdfBlobName, err := client.UploadPDF(ctx, testPDFFilename, testPDFData)
	if err != nil {
		return fmt.Errorf("PDF upload failed: %w", err)
	}

	logger.Info("PDF uploaded successfully", zap.String("blob_name", pdfBlobName))

	logger.Info("Testing PDF download", zap.String("blob_name", pdfBlobName))

	downloadedPDF, err := client.DownloadPDF(ctx, pdfBlobName)
	if err != nil {
		return fmt.Errorf("PDF download failed: %w", err)
	}

	if string(downloadedPDF) != string(testPDFData) {
		return fmt.Errorf("downloaded PDF doesn't match uploaded PDF")
	}

	logger.Info("PDF downloaded and verified successfully",
		zap.Int("size_bytes", len(downloadedPDF)),
	)

	return nil
}
