package mock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// IAMClient is a mock implementation of the aws.IAMClient interface for
// testing.
type IAMClient struct {
	// Roles maps role name to ARN
	Roles map[string]string
	// AttachedPolicies maps role name to attached policy names
	AttachedPolicies map[string][]string
}

// NewIAMClient creates a new mock IAM client
func NewIAMClient() *IAMClient {
	return &IAMClient{
		Roles:            make(map[string]string),
		AttachedPolicies: make(map[string][]string),
	}
}

// AddRole seeds a role with its ARN and attached policy names.
func (m *IAMClient) AddRole(name, arn string, policies ...string) {
	m.Roles[name] = arn
	m.AttachedPolicies[name] = policies
}

// GetRole returns the seeded role or a not-found error.
func (m *IAMClient) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	name := aws.ToString(params.RoleName)
	arn, ok := m.Roles[name]
	if !ok {
		return nil, fmt.Errorf("mock IAM: role not found: %s", name)
	}
	return &iam.GetRoleOutput{
		Role: &types.Role{RoleName: aws.String(name), Arn: aws.String(arn)},
	}, nil
}

// ListAttachedRolePolicies returns the seeded policy names.
func (m *IAMClient) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	name := aws.ToString(params.RoleName)
	if _, ok := m.Roles[name]; !ok {
		return nil, fmt.Errorf("mock IAM: role not found: %s", name)
	}

	var attached []types.AttachedPolicy
	for _, p := range m.AttachedPolicies[name] {
		attached = append(attached, types.AttachedPolicy{PolicyName: aws.String(p)})
	}
	return &iam.ListAttachedRolePoliciesOutput{AttachedPolicies: attached}, nil
}
