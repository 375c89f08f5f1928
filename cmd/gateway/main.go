package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	echoadapter "github.com/awslabs/aws-lambda-go-api-proxy/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/streamcurator/beatmap-curator/internal/analysis"
	"github.com/streamcurator/beatmap-curator/internal/clients"
	"github.com/streamcurator/beatmap-curator/internal/handlers"
	"github.com/streamcurator/beatmap-curator/internal/repository"
	"github.com/streamcurator/beatmap-curator/internal/service"
)

var echoLambda *echoadapter.EchoLambdaV2

func init() {
	if isLambda() {
		e, err := setupEcho()
		if err != nil {
			log.Fatalf("Failed to setup Echo: %v", err)
		}
		echoLambda = echoadapter.NewV2(e)
	}
}

func main() {
	if isLambda() {
		lambda.Start(echoLambda.ProxyWithContext)
		return
	}

	e, err := setupEcho()
	if err != nil {
		log.Fatalf("Failed to setup Echo: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	log.Printf("Starting beatmap-curator gateway on port %s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupEcho() (*echo.Echo, error) {
	ctx := context.Background()

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	tableName := os.Getenv("TABLE_NAME")
	bucketName := os.Getenv("BUCKET_NAME")
	userPoolID := os.Getenv("USER_POOL_ID")
	rebuildStateMachineArn := os.Getenv("REBUILD_STATE_MACHINE_ARN")
	exportPrefix := os.Getenv("EXPORT_PREFIX")
	if exportPrefix == "" {
		exportPrefix = "exports"
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	repo := repository.NewDynamoDBRepository(dynamoClient, tableName)

	s3Client := s3.NewFromConfig(awsCfg)
	s3Presign := s3.NewPresignClient(s3Client)
	objects := repository.NewS3Repository(s3Client, s3Presign, bucketName)

	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)
	difficultyCalc := clients.NewBedrockClient(bedrockClient)
	analyzer := analysis.NewAnalyzer(difficultyCalc)

	sfnClient := sfn.NewFromConfig(awsCfg)
	stepFunctions := service.NewSFNClientAdapter(sfnClient)

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsCfg)
	cognito := service.NewCognitoClient(cognitoClient, userPoolID)

	services := &service.Services{
		Analysis:   service.NewAnalysisService(repo, analyzer),
		Collection: service.NewCollectionService(repo, objects, stepFunctions, exportPrefix, rebuildStateMachineArn),
		Curator:    service.NewCuratorService(cognito),
	}

	h := handlers.NewHandlers(services.Analysis, services.Collection, services.Curator)

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e, nil
}

// isLambda returns true if running in AWS Lambda.
func isLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" ||
		os.Getenv("LAMBDA_TASK_ROOT") != ""
}
