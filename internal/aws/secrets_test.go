package awsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSecretsManager struct {
	mock.Mock
}

func (m *MockSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(*params.SecretId)
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestGetSecret_Plain(t *testing.T) {
	client := new(MockSecretsManager)
	client.On("GetSecretValue", "crm/jwt").Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("signing-secret"),
	}, nil)

	value, err := GetSecret(context.Background(), client, "crm/jwt", "")
	require.NoError(t, err)
	assert.Equal(t, "signing-secret", value)
	client.AssertExpectations(t)
}

func TestGetSecret_JSONKey(t *testing.T) {
	client := new(MockSecretsManager)
	client.On("GetSecretValue", "crm").Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"jwt": "from-json", "other": "x"}`),
	}, nil)

	value, err := GetSecret(context.Background(), client, "crm", "jwt")
	require.NoError(t, err)
	assert.Equal(t, "from-json", value)

	_, err = GetSecret(context.Background(), client, "crm", "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestGetSecret_NotFound(t *testing.T) {
	client := new(MockSecretsManager)
	client.On("GetSecretValue", "absent").Return(nil, &types.ResourceNotFoundException{Message: aws.String("nope")})

	_, err := GetSecret(context.Background(), client, "absent", "")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestGetSecret_OtherError(t *testing.T) {
	client := new(MockSecretsManager)
	client.On("GetSecretValue", "broken").Return(nil, errors.New("network down"))

	_, err := GetSecret(context.Background(), client, "broken", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSecretNotFound)
}
