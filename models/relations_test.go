package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func parseSchema(t *testing.T, model interface{}) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parsing schema for %T: %v", model, err)
	}
	return s
}

// The parent structs share their primary key field name with the child's
// foreign key field, so each relation must pin references: explicitly or
// GORM resolves it as a has-one keyed on the wrong side and every Preload
// loads the wrong row.
func TestParentRelationsResolveAsBelongsTo(t *testing.T) {
	cases := []struct {
		model    interface{}
		relation string
		refField string
	}{
		{&Issue{}, "Category", "CategoryID"},
		{&Category{}, "Authority", "AuthorityID"},
		{&AuthorityUser{}, "Authority", "AuthorityID"},
		{&IssueComment{}, "User", "UserID"},
	}

	for _, tc := range cases {
		s := parseSchema(t, tc.model)
		rel, ok := s.Relationships.Relations[tc.relation]
		if !ok {
			t.Fatalf("%T: relation %s not found", tc.model, tc.relation)
		}
		if rel.Type != schema.BelongsTo {
			t.Errorf("%T.%s: resolved as %s, want %s", tc.model, tc.relation, rel.Type, schema.BelongsTo)
			continue
		}
		if len(rel.References) != 1 {
			t.Errorf("%T.%s: expected one reference, got %d", tc.model, tc.relation, len(rel.References))
			continue
		}
		ref := rel.References[0]
		if ref.PrimaryKey.Name != tc.refField {
			t.Errorf("%T.%s: references %s, want %s", tc.model, tc.relation, ref.PrimaryKey.Name, tc.refField)
		}
		if ref.OwnPrimaryKey {
			t.Errorf("%T.%s: keyed on the owner's primary key, want the child's foreign key", tc.model, tc.relation)
		}
	}
}

func TestReporterRelationUsesReportedBy(t *testing.T) {
	s := parseSchema(t, &Issue{})
	rel, ok := s.Relationships.Relations["Reporter"]
	if !ok {
		t.Fatalf("Reporter relation not found")
	}
	if rel.Type != schema.BelongsTo {
		t.Fatalf("Reporter resolved as %s, want %s", rel.Type, schema.BelongsTo)
	}
	if len(rel.References) != 1 || rel.References[0].ForeignKey.Name != "ReportedBy" {
		t.Fatalf("unexpected references: %+v", rel.References)
	}
}
