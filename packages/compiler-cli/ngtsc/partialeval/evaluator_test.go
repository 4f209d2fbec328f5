package partialeval

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

func TestEvaluateLiterals(t *testing.T) {
	ev := NewLiteralEvaluator()

	cases := []struct {
		name string
		expr reflection.Expression
		want any
	}{
		{"string", &reflection.StringLiteral{Value: "hello"}, "hello"},
		{"number", &reflection.NumberLiteral{Value: 3}, 3},
		{"bool", &reflection.BoolLiteral{Value: true}, true},
		{"array", &reflection.ArrayLiteral{Elements: []reflection.Expression{
			&reflection.StringLiteral{Value: "a"},
			&reflection.StringLiteral{Value: "b"},
		}}, []any{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ev.Evaluate(tc.expr)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateObjectLiteralKeepsOrder(t *testing.T) {
	ev := NewLiteralEvaluator()
	obj := &reflection.ObjectLiteral{Entries: []reflection.ObjectEntry{
		{Key: "z", Value: &reflection.StringLiteral{Value: "last"}},
		{Key: "a", Value: &reflection.NumberLiteral{Value: 1}},
	}}

	resolved, ok := ev.Evaluate(obj).(*ResolvedMap)
	if !ok {
		t.Fatal("expected a ResolvedMap")
	}
	if diff := cmp.Diff([]string{"z", "a"}, resolved.Keys); diff != "" {
		t.Errorf("key order mismatch:\n%s", diff)
	}
	if v, _ := resolved.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v", v)
	}
}

func TestEvaluateEnumMember(t *testing.T) {
	ev := NewLiteralEvaluator()
	value := ev.Evaluate(&reflection.EnumMemberRef{Owner: "ViewEncapsulation", Name: "None", Value: 2})
	enum, ok := value.(*EnumValue)
	if !ok {
		t.Fatal("expected an EnumValue")
	}
	if enum.Owner != "ViewEncapsulation" || enum.Name != "None" || enum.Resolved != 2 {
		t.Errorf("unexpected enum value: %+v", enum)
	}
}

func TestEvaluateDynamicExpression(t *testing.T) {
	ev := NewLiteralEvaluator()
	value := ev.Evaluate(&reflection.Identifier{Name: "someVar"})
	if _, ok := value.(*DynamicValue); !ok {
		t.Errorf("expected a DynamicValue, got %T", value)
	}
}
