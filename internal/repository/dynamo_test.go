package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

type fakeDynamo struct {
	put    *dynamodb.PutItemInput
	del    *dynamodb.DeleteItemInput
	putErr error
	delErr error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.put = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.del = in
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func testSubmission() *model.Submission {
	return model.NewSubmission(
		"0b6f7c1e-0000-4000-8000-000000000001",
		time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC),
		model.ContactForm{FName: "Jo", LName: "Doe", Email: "jo@example.com", Message: "hi"},
		model.DefaultSource, "1.2.3.4", "ua",
	)
}

func TestDynamoStore_Insert(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewDynamoStore(fake, "ContactSubmissions")
	sub := testSubmission()

	require.NoError(t, store.Insert(context.Background(), sub))

	require.NotNil(t, fake.put)
	assert.Equal(t, "ContactSubmissions", aws.ToString(fake.put.TableName))
	assert.Equal(t, "attribute_not_exists(id)", aws.ToString(fake.put.ConditionExpression))

	var got model.Submission
	require.NoError(t, attributevalue.UnmarshalMap(fake.put.Item, &got))
	assert.Equal(t, *sub, got)
	assert.Len(t, fake.put.Item, 9)
	assert.IsType(t, &types.AttributeValueMemberS{}, fake.put.Item["createdAt"])
}

func TestDynamoStore_InsertDuplicate(t *testing.T) {
	fake := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}}
	store := NewDynamoStore(fake, "t")

	err := store.Insert(context.Background(), testSubmission())

	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDynamoStore_InsertError(t *testing.T) {
	fake := &fakeDynamo{putErr: errors.New("ResourceNotFoundException: table not found")}
	store := NewDynamoStore(fake, "missing")

	err := store.Insert(context.Background(), testSubmission())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), "ResourceNotFoundException")
	assert.Contains(t, err.Error(), "missing")
}

func TestDynamoStore_Delete(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewDynamoStore(fake, "t")

	require.NoError(t, store.Delete(context.Background(), "abc"))

	require.NotNil(t, fake.del)
	assert.Equal(t, "t", aws.ToString(fake.del.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "abc"}, fake.del.Key["id"])

	fake.delErr = errors.New("throttled")
	assert.Error(t, store.Delete(context.Background(), "abc"))
}
