package runtime

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetThenGetRoundTrips(t *testing.T) {
	d := NewDataObject()
	if err := d.SetText("abc"); err != nil || d.Text() != "abc" || d.Type() != TypeText {
		t.Fatalf("text round trip failed: %v %q", err, d.Text())
	}
	if err := d.SetChar('ß'); err != nil || d.Char() != 'ß' {
		t.Fatalf("char round trip failed: %v", err)
	}
	if err := d.SetInt(math.MinInt32); err != nil || d.Int() != math.MinInt32 {
		t.Fatalf("int round trip failed: %v", err)
	}
	if err := d.SetLong(math.MaxInt64); err != nil || d.Long() != math.MaxInt64 {
		t.Fatalf("long round trip failed: %v", err)
	}
	if err := d.SetFloat(1.5); err != nil || d.Float() != 1.5 {
		t.Fatalf("float round trip failed: %v", err)
	}
	if err := d.SetDouble(-2.25); err != nil || d.Double() != -2.25 {
		t.Fatalf("double round trip failed: %v", err)
	}
	if err := d.SetByteBuffer([]byte{1, 2}); err != nil || !cmp.Equal(d.ByteBuffer(), []byte{1, 2}) {
		t.Fatalf("byte buffer round trip failed: %v", err)
	}
	elements := []*DataObject{Int(1), Text("x")}
	if err := d.SetArray(elements); err != nil || len(d.Array()) != 2 || d.Array()[1] != elements[1] {
		t.Fatalf("array round trip failed: %v", err)
	}
	if err := d.SetError(NewErrorObject(ErrorDivByZero, "")); err != nil || d.ErrorObject().Kind != ErrorDivByZero {
		t.Fatalf("error round trip failed: %v", err)
	}
	if err := d.SetTypeValue(TypeList); err != nil || d.TypeValue() != TypeList {
		t.Fatalf("type round trip failed: %v", err)
	}
}

func TestIntAndCharPayloadsDoNotLeak(t *testing.T) {
	if got := Int(65).Char(); got != 0 {
		t.Fatalf("Char() of INT = %q, want 0", got)
	}
	if got := Char('A').Int(); got != 0 {
		t.Fatalf("Int() of CHAR = %d, want 0", got)
	}
}

func TestConstraintViolationLeavesSlotUnchanged(t *testing.T) {
	d := NewDataObject()
	if err := d.SetInt(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetTypeConstraint(AllowOnly(TypeInt, TypeLong)); err != nil {
		t.Fatalf("unexpected constraint error: %v", err)
	}
	err := d.SetText("nope")
	if KindOf(err) != ErrorConstraintViolated {
		t.Fatalf("expected CONSTRAINT_VIOLATED, got %v", err)
	}
	if d.Type() != TypeInt || d.Int() != 7 {
		t.Fatalf("slot changed after rejected set: %s %v", d.Type(), d.ToText())
	}
	if err := d.SetLong(8); err != nil {
		t.Fatalf("allowed kind rejected: %v", err)
	}
}

func TestSetTypeConstraintRejectsCurrentValue(t *testing.T) {
	d := Text("x")
	err := d.SetTypeConstraint(AllowOnly(TypeInt))
	if !errors.Is(err, NewLangError(ErrorConstraintViolated, "")) {
		t.Fatalf("expected CONSTRAINT_VIOLATED, got %v", err)
	}
	if d.TypeConstraint() != nil {
		t.Fatalf("constraint applied despite violation")
	}
}

func TestFinalSlotRejectsChanges(t *testing.T) {
	d := NewNamedDataObject("$x")
	if err := d.SetInt(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.SetFinal()
	if err := d.SetInt(2); KindOf(err) != ErrorFinalVarChange {
		t.Fatalf("expected FINAL_VAR_CHANGE, got %v", err)
	}
	if d.Int() != 1 {
		t.Fatalf("final slot changed to %d", d.Int())
	}
}

func TestNamingConventionConstraints(t *testing.T) {
	cases := []struct {
		name    string
		allowed []DataType
		denied  []DataType
	}{
		{"$x", []DataType{TypeText, TypeInt, TypeArray, TypeFunctionPointer, TypeNull}, nil},
		{"&x", []DataType{TypeArray, TypeList, TypeStruct, TypeObject, TypeNull}, []DataType{TypeText, TypeInt, TypeFunctionPointer, TypeVoid}},
		{"fp.x", []DataType{TypeFunctionPointer, TypeNull}, []DataType{TypeText, TypeArray, TypeVoid}},
		{"mp.x", []DataType{TypeFunctionPointer, TypeNull}, []DataType{TypeInt}},
	}
	for _, tc := range cases {
		c := ConstraintForName(tc.name)
		for _, typ := range tc.allowed {
			if !c.Allows(typ) {
				t.Fatalf("%s must allow %s", tc.name, typ)
			}
		}
		for _, typ := range tc.denied {
			if c.Allows(typ) {
				t.Fatalf("%s must not allow %s", tc.name, typ)
			}
		}
	}

	d := Int(1)
	if err := d.SetVariableName("&x"); KindOf(err) != ErrorConstraintViolated {
		t.Fatalf("expected naming constraint violation, got %v", err)
	}
}

func TestConstraintStringsAndCounts(t *testing.T) {
	if got := AllowOnly(TypeInt, TypeLong).String(); got != "{INT|LONG}" {
		t.Fatalf("allow-list string = %q", got)
	}
	deny := AllowAllBut(TypeNull)
	if got := deny.String(); got != "{!NULL}" {
		t.Fatalf("deny-list string = %q", got)
	}
	if deny.Allows(TypeNull) || !deny.Allows(TypeText) {
		t.Fatalf("deny-list semantics broken")
	}
	if got, want := deny.Count(), len(DataTypes())-1; got != want {
		t.Fatalf("deny count = %d, want %d", got, want)
	}
	var all *TypeConstraint
	if !all.Equal(AllowAllBut()) {
		t.Fatalf("nil constraint must equal the all-kinds constraint")
	}
	if !AllowOnly(TypeInt).SubsetOf(AllowOnly(TypeInt, TypeLong)) {
		t.Fatalf("subset check broken")
	}
}

func TestSetDataCopiesStaticAndFinalOnlyWhenFlagged(t *testing.T) {
	src := Int(3)
	src.SetFinal()
	dst := NewDataObject()
	if err := dst.SetData(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.IsFinal() {
		t.Fatalf("final flag copied without copyStaticAndFinal")
	}
	src.SetCopyStaticAndFinal(true)
	dst = NewDataObject()
	if err := dst.SetData(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dst.IsFinal() || dst.Int() != 3 {
		t.Fatalf("expected final copy of 3, got final=%v %v", dst.IsFinal(), dst)
	}
}

func TestToTextRendering(t *testing.T) {
	cases := []struct {
		value *DataObject
		want  string
	}{
		{Int(42), "42"},
		{Long(-7), "-7"},
		{Double(1), "1.0"},
		{Float(2.5), "2.5"},
		{Double(math.Inf(-1)), "-Infinity"},
		{Char('z'), "z"},
		{Null(), "null"},
		{Void(), ""},
		{Array(Int(1), Text("a")), "[1, a]"},
		{List(Int(1), Int(2)), "[1, 2]"},
		{ByteBuffer([]byte{0x0a, 0xff}), "0x0AFF"},
		{ErrorValue(ErrorDivByZero, ""), "DIV_BY_ZERO"},
		{TypeValue(TypeArray), "ARRAY"},
		{VarPointer(Int(3)), "-->{3}"},
	}
	for _, tc := range cases {
		if got := tc.value.ToText(); got != tc.want {
			t.Fatalf("ToText(%s) = %q, want %q", tc.value.Type(), got, tc.want)
		}
	}
}

func TestToNumberAndToBool(t *testing.T) {
	cases := []struct {
		value *DataObject
		want  *DataObject
	}{
		{Text("12"), Int(12)},
		{Text("5000000000"), Long(5000000000)},
		{Text("3l"), Long(3)},
		{Text("1.5"), Double(1.5)},
		{Text("2.5f"), Float(2.5)},
		{Char('A'), Int(65)},
		{Array(Int(1), Int(2)), Int(2)},
		{ErrorValue(ErrorNoNum, ""), Int(int32(ErrorNoNum))},
	}
	for _, tc := range cases {
		got := tc.value.ToNumber()
		if got == nil || !StrictEquals(got, tc.want) {
			t.Fatalf("ToNumber(%q) = %v, want %v", tc.value.ToText(), got, tc.want)
		}
	}
	for _, v := range []*DataObject{Text("abc"), Text("nan"), Null(), Void(), Text("")} {
		if n := v.ToNumber(); n != nil {
			t.Fatalf("ToNumber(%q) = %v, want nil", v.ToText(), n)
		}
	}
	if Int(0).ToBool() || !Int(2).ToBool() || Text("").ToBool() || !Text("x").ToBool() || Null().ToBool() {
		t.Fatalf("ToBool semantics broken")
	}
}

func TestDeepCopyClonesArrays(t *testing.T) {
	inner := Array(Int(1))
	outer := Array(inner)
	cp := outer.DeepCopy()
	if err := cp.Array()[0].Array()[0].SetInt(9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Array()[0].Int() != 1 {
		t.Fatalf("deep copy shares nested element")
	}
}

func TestEquality(t *testing.T) {
	if !Equals(Int(1), Double(1)) || StrictEquals(Int(1), Double(1)) {
		t.Fatalf("numeric loose/strict equality broken")
	}
	if !Equals(Text("1"), Int(1)) {
		t.Fatalf("text/number loose equality broken")
	}
	if !Equals(Array(Int(1), Int(2)), List(Int(1), Int(2))) {
		t.Fatalf("array/list loose equality broken")
	}
	if !StrictEquals(Array(Text("a")), Array(Text("a"))) {
		t.Fatalf("structural array equality broken")
	}
	if StrictEquals(Null(), Void()) {
		t.Fatalf("null must not strictly equal void")
	}
	if cmp, ok := Compare(Int(1), Long(2)); !ok || cmp != -1 {
		t.Fatalf("Compare(1, 2L) = %d, %v", cmp, ok)
	}
	if cmp, ok := Compare(Text("b"), Char('a')); !ok || cmp != 1 {
		t.Fatalf("Compare(b, 'a') = %d, %v", cmp, ok)
	}
	if _, ok := Compare(Null(), Int(1)); ok {
		t.Fatalf("null must not be comparable")
	}
}

func TestErrorKinds(t *testing.T) {
	for _, kind := range ErrorKinds() {
		parsed, ok := ParseErrorKind(kind.String())
		if !ok || parsed != kind {
			t.Fatalf("ParseErrorKind(%s) = %v, %v", kind, parsed, ok)
		}
	}
	if !ErrorDivByZero.IsError() || !WarningDeprecatedFuncCall.IsWarning() {
		t.Fatalf("error/warning classification broken")
	}
	if got := KindOf(errors.New("boom")); got != ErrorSystemError {
		t.Fatalf("KindOf(plain error) = %s", got)
	}
}
