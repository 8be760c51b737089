package paramstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Fetcher resolves a named configuration parameter.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// GetParameterAPI is the slice of the SSM client the store needs.
type GetParameterAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSM fetches decrypted parameters from Parameter Store.
type SSM struct {
	API GetParameterAPI
}

func NewSSM(api GetParameterAPI) *SSM {
	return &SSM{API: api}
}

func (s *SSM) Fetch(ctx context.Context, name string) (string, error) {
	out, err := s.API.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("parameter %s: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("parameter %s: empty value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

var _ Fetcher = (*SSM)(nil)
