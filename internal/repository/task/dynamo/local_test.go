package dynamo_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	"todoApp/internal/models/task"
	"todoApp/internal/repository/task/dynamo"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DynamoLocalTestSuite runs the storage against DynamoDB Local.
type DynamoLocalTestSuite struct {
	suite.Suite
	container testcontainers.Container
	endpoint  string
	client    *dynamodb.Client
	storage   *dynamo.Storage
	ctx       context.Context
}

func (s *DynamoLocalTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "amazon/dynamodb-local:latest",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "8000")
	require.NoError(s.T(), err)

	s.endpoint = fmt.Sprintf("http://%s:%s", host, port.Port())
	creds := awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", ""))

	cfg, err := awsconfig.LoadDefaultConfig(s.ctx, awsconfig.WithRegion("us-east-1"), creds)
	require.NoError(s.T(), err)
	s.client = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
	})

	s.storage, err = dynamo.New(s.ctx, table, "us-east-1", s.endpoint, creds)
	require.NoError(s.T(), err)
}

func (s *DynamoLocalTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *DynamoLocalTestSuite) SetupTest() {
	_, _ = s.client.DeleteTable(s.ctx, &dynamodb.DeleteTableInput{TableName: aws.String(table)})

	_, err := s.client.CreateTable(s.ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	s.Require().NoError(err)
}

func (s *DynamoLocalTestSuite) scanByID() map[string]*task.Task {
	tasks, err := s.storage.Scan(s.ctx)
	s.Require().NoError(err)

	byID := make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return byID
}

func (s *DynamoLocalTestSuite) TestHealthCheck() {
	s.NoError(s.storage.HealthCheck(s.ctx))
}

func (s *DynamoLocalTestSuite) TestLifecycle() {
	createdAt := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	s.Require().NoError(s.storage.Put(s.ctx, &task.Task{ID: "a", Text: "buy milk", Status: task.StatusTodo, CreatedAt: createdAt}))

	got := s.scanByID()
	s.Require().Contains(got, "a")
	s.Equal("buy milk", got["a"].Text)
	s.True(createdAt.Equal(got["a"].CreatedAt))

	s.Require().NoError(s.storage.UpdateStatus(s.ctx, "a", task.StatusDone))
	s.Equal(task.StatusDone, s.scanByID()["a"].Status)

	s.Require().NoError(s.storage.Delete(s.ctx, "a"))
	s.Require().NoError(s.storage.Delete(s.ctx, "a"))
	s.Empty(s.scanByID())
}

func (s *DynamoLocalTestSuite) TestUpdateStatusUpserts() {
	s.Require().NoError(s.storage.UpdateStatus(s.ctx, "ghost", task.StatusDone))

	got := s.scanByID()
	s.Require().Contains(got, "ghost")
	s.Equal(task.StatusDone, got["ghost"].Status)
	s.Empty(got["ghost"].Text)
}

func TestDynamoLocalSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(DynamoLocalTestSuite))
}
