package environment

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvConfig carries the process-level settings the grader reads from
// the environment. Flag values take precedence over these in cmd.
type EnvConfig struct {
	// SubmQueueURL is the SQS queue the listener polls for grade requests.
	SubmQueueURL string
	// RespQueueURL is the default SQS queue grading results are sent to
	// when a request does not name its own reply queue.
	RespQueueURL string
	// NatsURL switches the listener to NATS when set.
	NatsURL string
	// NatsSubject is the subject the NATS listener subscribes to.
	NatsSubject string
	// AWSRegion overrides the region resolved from the AWS config chain.
	AWSRegion string
}

// ReadEnvConfig loads .env if one is present and reads the grader's
// environment variables. Missing variables are left empty; each command
// validates the subset it needs.
func ReadEnvConfig() (*EnvConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &EnvConfig{
		SubmQueueURL: os.Getenv("GRADER_SUBM_SQS_URL"),
		RespQueueURL: os.Getenv("GRADER_RESP_SQS_URL"),
		NatsURL:      os.Getenv("GRADER_NATS_URL"),
		NatsSubject:  os.Getenv("GRADER_NATS_SUBJECT"),
		AWSRegion:    os.Getenv("AWS_REGION"),
	}
	if cfg.NatsSubject == "" {
		cfg.NatsSubject = "grader.requests"
	}
	return cfg, nil
}
