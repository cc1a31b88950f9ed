package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/grader"
	"github.com/programme-lv/grader/internal/activitydef"
	"github.com/programme-lv/grader/internal/environment"
	"github.com/programme-lv/grader/internal/fetch"
	"github.com/programme-lv/grader/internal/gatherer/natsgath"
	"github.com/programme-lv/grader/internal/gatherer/respbuilder"
	"github.com/programme-lv/grader/internal/gatherer/termgath"
	"github.com/programme-lv/grader/internal/grading"
	"github.com/programme-lv/grader/internal/xdg"
	"github.com/programme-lv/grader/sqsgath"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "grader",
		Usage: "grade interactive coding exercises",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "minimum log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON instead of colored text",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogger(cmd.String("log-level"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			gradeCmd(),
			listenCmd(),
			validateCmd(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("grader terminated", "error", err)
		os.Exit(1)
	}
}

func setupLogger(levelStr string, jsonOut bool) {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if jsonOut {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func gradeCmd() *cli.Command {
	return &cli.Command{
		Name:  "grade",
		Usage: "grade a local activity definition",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "def",
				Usage:    "path to the activity definition TOML",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "inputs",
				Usage: "directory of learner override files",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the full grading response as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := activitydef.Parse(cmd.String("def"))
			if err != nil {
				return err
			}
			if dir := cmd.String("inputs"); dir != "" {
				inputs, err := activitydef.ReadInputs(dir, def.SkeletonFiles)
				if err != nil {
					return err
				}
				def.InputFiles = inputs
			}

			// local definitions reference files on disk only
			svc := grading.New(slog.Default(), nil)
			gradeUuid := uuid.NewString()

			if cmd.Bool("json") {
				b := respbuilder.New(gradeUuid)
				if err := svc.GradeDefinition(ctx, gradeUuid, def, b); err != nil {
					return err
				}
				out, err := json.MarshalIndent(b.Response(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				if !b.Passed() {
					return cli.Exit("", 1)
				}
				return nil
			}

			t := termgath.New()
			if err := svc.GradeDefinition(ctx, gradeUuid, def, t); err != nil {
				return err
			}
			if !t.Passed() {
				return cli.Exit("submission failed", 1)
			}
			return nil
		},
	}
}

func listenCmd() *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "consume grade requests from a queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "queue",
				Usage: "submission SQS queue URL (default: GRADER_SUBM_SQS_URL)",
			},
			&cli.StringFlag{
				Name:  "nats",
				Usage: "NATS server URL; switches transport to NATS (default: GRADER_NATS_URL)",
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "NATS subject to subscribe to (default: GRADER_NATS_SUBJECT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			envCfg, err := environment.ReadEnvConfig()
			if err != nil {
				return err
			}

			natsUrl := cmd.String("nats")
			if natsUrl == "" {
				natsUrl = envCfg.NatsURL
			}
			subject := cmd.String("subject")
			if subject == "" {
				subject = envCfg.NatsSubject
			}
			queueUrl := cmd.String("queue")
			if queueUrl == "" {
				queueUrl = envCfg.SubmQueueURL
			}

			store, err := newStore(ctx, envCfg.AWSRegion)
			if err != nil {
				return err
			}
			svc := grading.New(slog.Default(), store)

			if natsUrl != "" {
				return listenNats(ctx, svc, natsUrl, subject)
			}
			if queueUrl == "" {
				return fmt.Errorf("no transport configured: pass --queue or --nats, or set GRADER_SUBM_SQS_URL")
			}
			return listenSqs(ctx, svc, envCfg, queueUrl)
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "parse and dry-check activity definitions",
		ArgsUsage: "<definition.toml> [...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("expected at least one definition file argument")
			}
			svc := grading.New(slog.Default(), nil)
			for _, path := range cmd.Args().Slice() {
				def, err := activitydef.Parse(path)
				if err != nil {
					return err
				}
				if err := svc.Validate(def); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("%s OK\n", path)
			}
			return nil
		},
	}
}

// newStore opens the content-addressed store under the user's XDG
// cache directory and enables S3 downloads when AWS config resolves.
func newStore(ctx context.Context, region string) (*fetch.Store, error) {
	dirs := xdg.NewDirs()
	cacheDir := dirs.AppCacheDir("grader")
	if err := dirs.EnsureDir(cacheDir); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, regionOpts(region)...)
	if err != nil {
		slog.Warn("S3 downloads disabled", "error", err)
		return fetch.New(cacheDir)
	}
	return fetch.New(cacheDir, fetch.WithS3(s3.NewFromConfig(awsCfg)))
}

func regionOpts(region string) []func(*config.LoadOptions) error {
	if region == "" {
		return nil
	}
	return []func(*config.LoadOptions) error{config.WithRegion(region)}
}

func listenSqs(ctx context.Context, svc *grading.Service, envCfg *environment.EnvConfig, queueUrl string) error {
	awsCfg, err := config.LoadDefaultConfig(ctx, regionOpts(envCfg.AWSRegion)...)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	slog.Info("listening for grade requests", "queue", queueUrl)
	for {
		output, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueUrl),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     5,
		})
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("listener stopped")
				return nil
			}
			slog.Error("failed to receive messages", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, message := range output.Messages {
			var req grader.GradeReq
			if err := json.Unmarshal([]byte(*message.Body), &req); err != nil {
				slog.Error("failed to unmarshal message", "error", err)
				continue
			}

			respQueue := req.ResSqsUrl
			if respQueue == "" {
				respQueue = envCfg.RespQueueURL
			}
			if respQueue == "" {
				slog.Error("request names no reply queue and GRADER_RESP_SQS_URL is unset",
					"grade_uuid", req.GradeUuid)
				continue
			}

			gath := sqsgath.New(sqsClient, req.GradeUuid, respQueue)
			if err := svc.Grade(ctx, req, gath); err != nil {
				// leave the message in the queue for redelivery
				slog.Error("grading failed", "error", err, "grade_uuid", req.GradeUuid)
				continue
			}

			if _, err := sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(queueUrl),
				ReceiptHandle: message.ReceiptHandle,
			}); err != nil {
				slog.Error("failed to delete message", "error", err)
			}
		}
	}
}

func listenNats(ctx context.Context, svc *grading.Service, natsUrl string, subject string) error {
	nc, err := nats.Connect(natsUrl)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Drain()

	sub, err := nc.QueueSubscribe(subject, "graders", func(m *nats.Msg) {
		var req grader.GradeReq
		if err := json.Unmarshal(m.Data, &req); err != nil {
			slog.Error("failed to unmarshal message", "error", err)
			return
		}
		if m.Reply == "" {
			slog.Error("request has no reply subject", "grade_uuid", req.GradeUuid)
			return
		}
		gath := natsgath.New(nc, req.GradeUuid, m.Reply)
		if err := svc.Grade(ctx, req, gath); err != nil {
			slog.Error("grading failed", "error", err, "grade_uuid", req.GradeUuid)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	slog.Info("listening for grade requests", "nats", natsUrl, "subject", subject)
	<-ctx.Done()
	return nil
}
