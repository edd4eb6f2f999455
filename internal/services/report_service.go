package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"cantina/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReportStore uploads rendered meal reports to object storage.
type ReportStore interface {
	UploadReport(ctx context.Context, bucketName, objectName string, data []byte) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioReportStore struct {
	client *minio.Client
}

func NewMinioReportStore(endpoint, accessKey, secretKey string, useSSL bool) (ReportStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioReportStore{client: client}, nil
}

func (m *minioReportStore) UploadReport(ctx context.Context, bucketName, objectName string, data []byte) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	return err
}

func (m *minioReportStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// ReportService renders one canteen's meal statistics as a CSV kitchen
// report and uploads it.
type ReportService interface {
	ExportMealReport(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (string, error)
}

type reportService struct {
	stats  StatisticsService
	store  ReportStore
	bucket string
}

func NewReportService(stats StatisticsService, store ReportStore, bucket string) ReportService {
	return &reportService{stats: stats, store: store, bucket: bucket}
}

func (s *reportService) ExportMealReport(ctx context.Context, canteenID uuid.UUID, orderDate time.Time, mealType string) (string, error) {
	stats, err := s.stats.MealStatistics(ctx, canteenID, orderDate, mealType)
	if err != nil {
		return "", err
	}

	data, err := renderMealReportCSV(stats)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s/%s.csv", orderDate.Format("2006-01-02"), canteenID, mealType)
	if err := s.store.UploadReport(ctx, s.bucket, objectName, data); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return objectName, nil
}

func renderMealReportCSV(stats *models.MealStatistics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"dish_name", "total_quantity", "order_count"})
	for _, dish := range stats.DishStatistics {
		_ = w.Write([]string{dish.DishName, strconv.Itoa(dish.TotalQuantity), strconv.Itoa(dish.OrderCount)})
	}
	_ = w.Write([]string{})
	_ = w.Write([]string{"employee_id", "full_name", "order_no", "created_at"})
	for _, user := range stats.UserStatistics {
		_ = w.Write([]string{user.EmployeeID, user.FullName, user.OrderNo, user.CreatedAt.Format(time.RFC3339)})
	}
	_ = w.Write([]string{})
	_ = w.Write([]string{"total_orders", strconv.Itoa(stats.TotalOrders)})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
