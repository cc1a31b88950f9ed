package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// New creates a gatherer that streams grading responses to the
// response queue named by the request.
func New(sqsClient *sqs.Client, gradeUuid string, queueUrl string) *sqsGatherer {
	return &sqsGatherer{
		sqsClient: sqsClient,
		queueUrl:  queueUrl,
		gradeUuid: gradeUuid,
	}
}
