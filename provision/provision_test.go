package provision

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/integration/mock"
)

func sampleUser() employee.UserRecord {
	return employee.UserRecord{
		Username: "maria.rodriguez", Email: "maria.garcia@company.com",
		Role: "Cloud Engineer", StartDate: "2024-02-01",
		Department: "Cloud Infrastructure", EmployeeID: "CE-2024-002", Manager: "Robert Chen",
	}
}

func TestPoliciesForRole(t *testing.T) {
	testCases := []struct {
		role     string
		expected []string
	}{
		{"System Administrator", []string{"AdministratorAccess", "IAMFullAccess"}},
		{"Cloud Engineer", []string{"PowerUserAccess", "AWSCloud9User"}},
		{"Developer", []string{"PowerUserAccess", "AWSCodeCommitPowerUser"}},
		{"Data Analyst", []string{"AmazonS3ReadOnlyAccess", "AmazonAthenaFullAccess"}},
		{"Intern", []string{"ReadOnlyAccess"}},
		{"", []string{"ReadOnlyAccess"}},
	}

	for _, tc := range testCases {
		t.Run(tc.role, func(t *testing.T) {
			got := PoliciesForRole(tc.role)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestProvisionWritesRegistry(t *testing.T) {
	ddb := mock.NewDynamoDBClient()
	p := NewProvisioner(ddb, nil, "provisioned-accounts", "", false)

	res := p.Provision(context.Background(), sampleUser())

	if res.Status != StatusProvisioned {
		t.Errorf("expected PROVISIONED, got %s", res.Status)
	}
	if res.RegistryError != "" {
		t.Errorf("unexpected registry error: %s", res.RegistryError)
	}

	items := ddb.Items["provisioned-accounts"]
	if len(items) != 1 {
		t.Fatalf("expected one registry item, got %d", len(items))
	}
	var item registryItem
	if err := attributevalue.UnmarshalMap(items[0], &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Username != "maria.rodriguez" || item.Status != StatusProvisioned {
		t.Errorf("unexpected registry item: %+v", item)
	}
	if len(item.Policies) != 2 || item.Policies[0] != "PowerUserAccess" {
		t.Errorf("expected Cloud Engineer policies, got %v", item.Policies)
	}
	if item.ProvisionedAt == "" {
		t.Error("expected provisioned_at timestamp")
	}
}

func TestProvisionRegistryFailureDegrades(t *testing.T) {
	ddb := mock.NewDynamoDBClient()
	ddb.FailWith = "throughput exceeded"
	p := NewProvisioner(ddb, nil, "provisioned-accounts", "", false)

	res := p.Provision(context.Background(), sampleUser())

	if res.Status != StatusProvisioned {
		t.Errorf("expected PROVISIONED despite registry failure, got %s", res.Status)
	}
	if res.RegistryError == "" {
		t.Error("expected registry error to be recorded")
	}
}

func TestProvisionDryRunSkipsRegistry(t *testing.T) {
	ddb := mock.NewDynamoDBClient()
	p := NewProvisioner(ddb, nil, "provisioned-accounts", "", true)

	p.Provision(context.Background(), sampleUser())

	if len(ddb.Items["provisioned-accounts"]) != 0 {
		t.Error("expected no registry write in dry-run mode")
	}
}

func TestProvisionNoTableConfigured(t *testing.T) {
	p := NewProvisioner(nil, nil, "", "", false)

	res := p.Provision(context.Background(), sampleUser())
	if res.Status != StatusProvisioned || res.RegistryError != "" {
		t.Errorf("unexpected result without registry: %+v", res)
	}
}

func TestProvisionRoleReport(t *testing.T) {
	iamClient := mock.NewIAMClient()
	iamClient.AddRole("onboarding-exec", "arn:aws:iam::123456789012:role/onboarding-exec",
		"AmazonS3FullAccess", "ComprehendReadOnly")
	p := NewProvisioner(nil, iamClient, "", "onboarding-exec", false)

	res := p.Provision(context.Background(), sampleUser())

	if res.RoleReport == nil {
		t.Fatal("expected role report")
	}
	if res.RoleReport.RoleARN != "arn:aws:iam::123456789012:role/onboarding-exec" {
		t.Errorf("unexpected role ARN: %s", res.RoleReport.RoleARN)
	}
	if len(res.RoleReport.AttachedPolicies) != 2 {
		t.Errorf("expected 2 attached policies, got %v", res.RoleReport.AttachedPolicies)
	}
}

func TestProvisionRoleReportLookupFailure(t *testing.T) {
	p := NewProvisioner(nil, mock.NewIAMClient(), "", "missing-role", false)

	res := p.Provision(context.Background(), sampleUser())

	if res.RoleReport == nil || res.RoleReport.Err == "" {
		t.Errorf("expected lookup failure in report, got %+v", res.RoleReport)
	}
}

func TestSkip(t *testing.T) {
	res := Skip(sampleUser())
	if res.Status != StatusSkipped {
		t.Errorf("expected SKIPPED, got %s", res.Status)
	}
	if res.Username != "maria.rodriguez" {
		t.Errorf("expected username in skip result, got %s", res.Username)
	}
	if len(res.PoliciesAssigned) != 0 {
		t.Errorf("expected no policies on skip, got %v", res.PoliciesAssigned)
	}
}
