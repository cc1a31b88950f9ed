package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/programme-lv/grader"
	"github.com/programme-lv/grader/internal/environment"
)

// test-bench sender: pushes copies of a grade request onto the
// submission queue, each under a fresh uuid.
func main() {
	reqPath := flag.String("req", "data/req.json", "grade request JSON file")
	count := flag.Int("count", 3, "number of copies to send")
	queueUrl := flag.String("queue", "", "submission queue URL (default: GRADER_SUBM_SQS_URL)")
	flag.Parse()

	envCfg, err := environment.ReadEnvConfig()
	panicOnError(err)

	url := *queueUrl
	if url == "" {
		url = envCfg.SubmQueueURL
	}
	if url == "" {
		log.Fatal("no submission queue: pass -queue or set GRADER_SUBM_SQS_URL")
	}

	body, err := os.ReadFile(*reqPath)
	panicOnError(err)

	var req grader.GradeReq
	panicOnError(json.Unmarshal(body, &req))

	var opts []func(*config.LoadOptions) error
	if envCfg.AWSRegion != "" {
		opts = append(opts, config.WithRegion(envCfg.AWSRegion))
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	panicOnError(err)
	sqsClient := sqs.NewFromConfig(cfg)

	for i := 1; i <= *count; i++ {
		req.GradeUuid = uuid.NewString()
		b, err := json.Marshal(req)
		panicOnError(err)

		_, err = sqsClient.SendMessage(context.TODO(), &sqs.SendMessageInput{
			QueueUrl:    aws.String(url),
			MessageBody: aws.String(string(b)),
		})
		if err != nil {
			log.Printf("failed to send message %d: %v", i, err)
		} else {
			log.Printf("sent message %d: %s", i, req.GradeUuid)
		}
		time.Sleep(1 * time.Second)
	}
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
