// Package provision simulates account provisioning for an extracted user
// record. Policy assignment is derived from the user's role; the result is
// persisted to a DynamoDB registry and optionally enriched with a read-only
// IAM role report. Nothing here mutates IAM.
package provision

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	awsx "github.com/gurre/hr-onboard/aws"
	"github.com/gurre/hr-onboard/employee"
)

// rolePolicies maps job roles to the managed policies a provisioned account
// would receive.
var rolePolicies = map[string][]string{
	"System Administrator": {"AdministratorAccess", "IAMFullAccess"},
	"Cloud Engineer":       {"PowerUserAccess", "AWSCloud9User"},
	"Developer":            {"PowerUserAccess", "AWSCodeCommitPowerUser"},
	"Data Analyst":         {"AmazonS3ReadOnlyAccess", "AmazonAthenaFullAccess"},
}

// defaultPolicies apply to roles without an explicit mapping.
var defaultPolicies = []string{"ReadOnlyAccess"}

// PoliciesForRole returns the managed policies assigned to a role.
func PoliciesForRole(role string) []string {
	if policies, ok := rolePolicies[role]; ok {
		return policies
	}
	return defaultPolicies
}

// RoleReport is the read-only IAM lookup attached to a provisioning result
// for reporting. Lookup failures are carried in Err, never escalated.
type RoleReport struct {
	RoleName         string   `json:"role_name"`
	RoleARN          string   `json:"role_arn,omitempty"`
	AttachedPolicies []string `json:"attached_policies,omitempty"`
	Err              string   `json:"error,omitempty"`
}

// Result records what provisioning did for one user.
type Result struct {
	Username         string      `json:"username"`
	PoliciesAssigned []string    `json:"policies_assigned"`
	Status           string      `json:"status"`
	RegistryError    string      `json:"registry_error,omitempty"`
	RoleReport       *RoleReport `json:"role_report,omitempty"`
}

// Provisioning statuses.
const (
	StatusProvisioned = "PROVISIONED"
	StatusSkipped     = "SKIPPED"
)

// registryItem is the DynamoDB row written for a provisioned account.
type registryItem struct {
	Username      string   `dynamodbav:"username"`
	Email         string   `dynamodbav:"email"`
	Role          string   `dynamodbav:"role"`
	StartDate     string   `dynamodbav:"start_date"`
	Department    string   `dynamodbav:"department"`
	EmployeeID    string   `dynamodbav:"employee_id"`
	Manager       string   `dynamodbav:"manager"`
	Policies      []string `dynamodbav:"policies"`
	Status        string   `dynamodbav:"status"`
	ProvisionedAt string   `dynamodbav:"provisioned_at"`
}

// Provisioner performs the simulated provisioning step.
type Provisioner struct {
	registry       awsx.DynamoDBClient
	iamClient      awsx.IAMClient
	table          string // empty disables the registry write
	reportRoleName string // empty disables the IAM lookup
	dryRun         bool
}

// NewProvisioner creates a Provisioner. registry and iamClient may be nil
// when the corresponding table/role configuration is empty.
func NewProvisioner(registry awsx.DynamoDBClient, iamClient awsx.IAMClient, table, reportRoleName string, dryRun bool) *Provisioner {
	return &Provisioner{
		registry:       registry,
		iamClient:      iamClient,
		table:          table,
		reportRoleName: reportRoleName,
		dryRun:         dryRun,
	}
}

// Provision assigns policies for user's role, records the account in the
// registry, and attaches the IAM role report when configured. Registry and
// lookup failures degrade the result; they never fail the run.
func (p *Provisioner) Provision(ctx context.Context, user employee.UserRecord) Result {
	res := Result{
		Username:         user.Username,
		PoliciesAssigned: PoliciesForRole(user.Role),
		Status:           StatusProvisioned,
	}

	if p.table != "" && p.registry != nil && !p.dryRun {
		if err := p.writeRegistry(ctx, user, res.PoliciesAssigned); err != nil {
			res.RegistryError = err.Error()
		}
	}

	if p.reportRoleName != "" && p.iamClient != nil {
		res.RoleReport = p.lookupRole(ctx, p.reportRoleName)
	}

	return res
}

// Skip returns the result recorded when policy blocks provisioning.
func Skip(user employee.UserRecord) Result {
	return Result{Username: user.Username, Status: StatusSkipped}
}

func (p *Provisioner) writeRegistry(ctx context.Context, user employee.UserRecord, policies []string) error {
	item, err := attributevalue.MarshalMap(registryItem{
		Username:      user.Username,
		Email:         user.Email,
		Role:          user.Role,
		StartDate:     user.StartDate,
		Department:    user.Department,
		EmployeeID:    user.EmployeeID,
		Manager:       user.Manager,
		Policies:      policies,
		Status:        StatusProvisioned,
		ProvisionedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	_, err = p.registry.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.table),
		Item:      item,
	})
	return err
}

// lookupRole fetches the named role and its attached policy names for the
// provisioning report.
func (p *Provisioner) lookupRole(ctx context.Context, roleName string) *RoleReport {
	report := &RoleReport{RoleName: roleName}

	role, err := p.iamClient.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		report.Err = err.Error()
		return report
	}
	if role.Role != nil {
		report.RoleARN = aws.ToString(role.Role.Arn)
	}

	policies, err := p.iamClient.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		report.Err = err.Error()
		return report
	}
	for _, policy := range policies.AttachedPolicies {
		report.AttachedPolicies = append(report.AttachedPolicies, aws.ToString(policy.PolicyName))
	}

	return report
}
