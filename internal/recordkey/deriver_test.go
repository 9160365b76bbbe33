package recordkey

import (
	"errors"
	"testing"

	"github.com/haasonsaas/huntbench/pkg/models"
)

func TestDerive(t *testing.T) {
	deriver := New(nil)

	tests := []struct {
		name string
		row  models.EventRow
		want string
	}{
		{
			name: "all identity fields present",
			row: models.EventRow{
				"eventID":              models.StringField("e-1"),
				"eventTime":            models.StringField("2023-03-01T10:00:00Z"),
				"eventName":            models.StringField("ConsoleLogin"),
				"sourceIPAddress":      models.StringField("10.0.0.5"),
				"userIdentityuserName": models.StringField("admin"),
			},
			want: "eventID:e-1|eventTime:2023-03-01T10:00:00Z|eventName:ConsoleLogin|sourceIPAddress:10.0.0.5|userIdentityuserName:admin",
		},
		{
			name: "null fields skipped",
			row: models.EventRow{
				"eventID":   models.StringField("e-2"),
				"eventTime": models.NullField(),
				"eventName": models.StringField("GetCallerIdentity"),
			},
			want: "eventID:e-2|eventName:GetCallerIdentity",
		},
		{
			name: "extra columns ignored",
			row: models.EventRow{
				"eventID":   models.StringField("e-3"),
				"errorCode": models.StringField("AccessDenied"),
				"userAgent": models.StringField("aws-cli/2.0"),
			},
			want: "eventID:e-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deriver.Derive(tt.row)
			if err != nil {
				t.Fatalf("Derive() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Derive() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveSchemaMismatch(t *testing.T) {
	deriver := New(nil)

	tests := []struct {
		name string
		row  models.EventRow
	}{
		{
			name: "identity fields absent from schema",
			row: models.EventRow{
				"count": models.IntField(42),
				"label": models.StringField("aggregate"),
			},
		},
		{
			name: "identity fields present but all null",
			row: models.EventRow{
				"eventID":   models.NullField(),
				"eventTime": models.NullField(),
			},
		},
		{
			name: "empty row",
			row:  models.EventRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deriver.Derive(tt.row)
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("Derive() error = %v, want ErrSchemaMismatch", err)
			}
		})
	}
}

func TestDeriveDeterminism(t *testing.T) {
	deriver := New([]string{"eventID", "eventName"})
	row := models.EventRow{
		"eventID":   models.StringField("e-9"),
		"eventName": models.StringField("RunInstances"),
	}

	first, err := deriver.Derive(row)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := deriver.Derive(row)
		if err != nil {
			t.Fatalf("Derive() error = %v", err)
		}
		if got != first {
			t.Fatalf("Derive() = %q on repeat, first was %q", got, first)
		}
	}
}

func TestDeriveCustomFieldOrder(t *testing.T) {
	deriver := New([]string{"eventName", "eventID"})
	row := models.EventRow{
		"eventID":   models.StringField("e-1"),
		"eventName": models.StringField("ConsoleLogin"),
	}

	got, err := deriver.Derive(row)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	want := "eventName:ConsoleLogin|eventID:e-1"
	if got != want {
		t.Errorf("Derive() = %q, want %q (field list order, not map order)", got, want)
	}
}

func TestNewCopiesFields(t *testing.T) {
	fields := []string{"eventID"}
	deriver := New(fields)
	fields[0] = "mutated"

	if got := deriver.Fields()[0]; got != "eventID" {
		t.Errorf("Fields()[0] = %q after caller mutation, want eventID", got)
	}
}
