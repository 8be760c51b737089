package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

const charset = "UTF-8"

// SendEmailAPI is the slice of the SES client the mailer needs.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email sends formatted alert emails to a single recipient.
type Email struct {
	API       SendEmailAPI
	Sender    string
	Recipient string
	Logger    *zap.Logger
}

func NewEmail(api SendEmailAPI, sender, recipient string, logger *zap.Logger) *Email {
	return &Email{API: api, Sender: sender, Recipient: recipient, Logger: logger}
}

func generateText(heading, text string) string {
	return fmt.Sprintf("%s\r\n\n%s\n\nThis email was sent by the Secure Contact application", heading, text)
}

func generateHTML(heading, text string) string {
	return fmt.Sprintf(`<html>
<head></head>
<body>
<h1>%s</h1>
<p>%s</p>
<p>This email was sent by the Secure Contact application using <a href='https://aws.amazon.com/ses/'>AWS SES</a></p>
</body>
</html>`, heading, text)
}

// SendAlert delivers one alert with both HTML and plain-text bodies.
func (e *Email) SendAlert(ctx context.Context, subject, heading, text string) error {
	out, err := e.API.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{e.Recipient},
		},
		Message: &types.Message{
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String(charset), Data: aws.String(generateHTML(heading, text))},
				Text: &types.Content{Charset: aws.String(charset), Data: aws.String(generateText(heading, text))},
			},
			Subject: &types.Content{Charset: aws.String(charset), Data: aws.String(subject)},
		},
		Source: aws.String(fmt.Sprintf("SecureDrop Monitor <%s>", e.Sender)),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	e.Logger.Info("alert_email_sent",
		zap.String("recipient", e.Recipient),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
