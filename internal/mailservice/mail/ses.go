package mail

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

type SESSender struct {
	Client *ses.Client
}

func NewSESSender(ctx context.Context, cred credentials.AWSKeys) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cred.Region),
		awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(cred.AccessKeyID, cred.SecretAccessKey, ""),
		))
	if err != nil {
		return nil, err
	}

	return &SESSender{Client: ses.NewFromConfig(cfg)}, nil
}

// Send uses SendRawEmail so the attachment rides the same RFC-822 message
// the Gmail senders build.
func (s *SESSender) Send(ctx context.Context, msg types.EmailMessage) error {
	raw := buildRawMessage(msg, randomBoundary())

	destinations := append([]string{msg.To}, msg.CC...)
	_, err := s.Client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(msg.From),
		Destinations: destinations,
		RawMessage:   &sestypes.RawMessage{Data: raw},
	})
	if err != nil {
		return &apperr.ProviderError{Provider: "ses", Body: err.Error()}
	}
	return nil
}
