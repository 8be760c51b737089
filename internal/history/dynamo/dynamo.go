package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/guardian/secure-contact/internal/history"
)

// Attribute names match the CloudFormation table definition. TTL on the
// table is driven by ExpirationTime; expired records disappear
// asynchronously without any delete calls from here.
const (
	attrCheckTime  = "CheckTime"
	attrOutcome    = "Outcome"
	attrExpiration = "ExpirationTime"
)

// API is the slice of the DynamoDB client the store needs.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type Store struct {
	api   API
	table string
	now   func() time.Time
}

func New(api API, table string) *Store {
	return &Store{api: api, table: table, now: time.Now}
}

func (s *Store) Append(ctx context.Context, rec history.OutcomeRecord) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      marshalRecord(rec),
	})
	if err != nil {
		return fmt.Errorf("put outcome record: %w", err)
	}
	return nil
}

func (s *Store) Recent(ctx context.Context, windowSeconds int64, limit int) ([]history.OutcomeRecord, error) {
	now := s.now().Unix()
	filt := expression.Name(attrCheckTime).Between(expression.Value(now-windowSeconds), expression.Value(now))
	expr, err := expression.NewBuilder().WithFilter(filt).Build()
	if err != nil {
		return nil, fmt.Errorf("build scan filter: %w", err)
	}

	out, err := s.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}

	recs := make([]history.OutcomeRecord, 0, len(out.Items))
	for _, item := range out.Items {
		rec, err := unmarshalRecord(item)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

var _ history.Store = (*Store)(nil)
