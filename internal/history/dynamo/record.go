package dynamo

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/guardian/secure-contact/internal/history"
)

// The record schema is fixed at three attributes, so the (de)serializer is
// written out explicitly instead of going through a reflective marshaller:
// CheckTime and ExpirationTime are numbers, Outcome is the string form of
// the boolean (it is the table's range key).

func marshalRecord(rec history.OutcomeRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrCheckTime:  &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.CheckTime, 10)},
		attrExpiration: &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.ExpirationTime, 10)},
		attrOutcome:    &types.AttributeValueMemberS{Value: strconv.FormatBool(rec.Outcome)},
	}
}

func unmarshalRecord(item map[string]types.AttributeValue) (history.OutcomeRecord, error) {
	var rec history.OutcomeRecord
	var err error

	if rec.CheckTime, err = numberAttr(item, attrCheckTime); err != nil {
		return rec, err
	}
	if rec.ExpirationTime, err = numberAttr(item, attrExpiration); err != nil {
		return rec, err
	}

	raw, ok := item[attrOutcome].(*types.AttributeValueMemberS)
	if !ok {
		return rec, fmt.Errorf("record missing string attribute %s", attrOutcome)
	}
	if rec.Outcome, err = strconv.ParseBool(raw.Value); err != nil {
		return rec, fmt.Errorf("parse %s: %w", attrOutcome, err)
	}
	return rec, nil
}

func numberAttr(item map[string]types.AttributeValue, name string) (int64, error) {
	raw, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("record missing numeric attribute %s", name)
	}
	n, err := strconv.ParseInt(raw.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}
