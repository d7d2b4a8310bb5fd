package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/task"
	repo "todoApp/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// API is the subset of *dynamodb.Client the storage uses.
type API interface {
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type item struct {
	ID        string `dynamodbav:"id"`
	Text      string `dynamodbav:"task"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at,omitempty"`
}

type Storage struct {
	client API
	table  string
}

// New builds a client for region. endpoint is only set for DynamoDB Local
// and similar emulators. The SDK retryer is disabled: every call is tried once.
func New(ctx context.Context, table, region, endpoint string, optFns ...func(*awsconfig.LoadOptions) error) (*Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	loadOpts = append(loadOpts, optFns...)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Error("Repository: Failed to load AWS config", err)
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	logger.Info("Repository: DynamoDB client ready",
		zap.String("table", table),
		zap.String("region", region))
	return NewWithClient(client, table), nil
}

func NewWithClient(client API, table string) *Storage {
	return &Storage{client: client, table: table}
}

func (s *Storage) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		logger.Error("Repository: DescribeTable failed", err)
		return classify("describe", err)
	}
	return nil
}

// Scan reads every page of the table.
func (s *Storage) Scan(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	tasks := []*task.Task{}
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logger.Error("Repository: Error scanning DynamoDB table", err, zap.Int("pages", pages))
			return nil, classify("scan", err)
		}
		pages++

		var items []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			logger.Error("Repository: Failed to decode scanned items", err)
			return nil, repo.NewError("scan", repo.KindMalformed, err)
		}
		for _, it := range items {
			tasks = append(tasks, &task.Task{
				ID:        it.ID,
				Text:      it.Text,
				Status:    task.Status(it.Status),
				CreatedAt: task.ParseCreatedAt(it.CreatedAt),
			})
		}
	}

	logger.Log(zap.DebugLevel, "Repository: Scan complete",
		zap.Int("pages", pages),
		zap.Int("items", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	return tasks, nil
}

func (s *Storage) Put(ctx context.Context, taskToPut *task.Task) error {
	av, err := attributevalue.MarshalMap(item{
		ID:        taskToPut.ID,
		Text:      taskToPut.Text,
		Status:    string(taskToPut.Status),
		CreatedAt: task.FormatCreatedAt(taskToPut.CreatedAt),
	})
	if err != nil {
		return repo.NewError("put", repo.KindMalformed, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		logger.Error("Repository: Error adding task to DynamoDB", err, zap.String("task_id", taskToPut.ID))
		return classify("put", err)
	}
	return nil
}

// UpdateStatus has no condition expression, so an unknown id is created.
func (s *Storage) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table),
		Key:              s.key(id),
		UpdateExpression: aws.String("SET #status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		logger.Error("Repository: Error updating task in DynamoDB", err, zap.String("task_id", id))
		return classify("update", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		logger.Error("Repository: Error deleting task from DynamoDB", err, zap.String("task_id", id))
		return classify("delete", err)
	}
	return nil
}

func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded", "LimitExceededException":
			return repo.NewError(op, repo.KindThrottled, err)
		case "SerializationException":
			return repo.NewError(op, repo.KindMalformed, err)
		default:
			return repo.Wrap(op, repo.KindInternal, err)
		}
	}
	return repo.Wrap(op, repo.KindUnavailable, err)
}
