package gsd_test

import (
	"testing"

	"github.com/KarpelesLab/gsd"
)

func TestMakeVersion(t *testing.T) {
	v := gsd.MakeVersion(1, 3)
	if v != (1<<16 | 3) {
		t.Fatalf("MakeVersion(1,3) = %#x, want %#x", v, uint32(1<<16|3))
	}
}

func TestElementTypeSizes(t *testing.T) {
	cases := []struct {
		typ  gsd.ElementType
		size int
	}{
		{gsd.TypeUint8, 1},
		{gsd.TypeInt8, 1},
		{gsd.TypeUint16, 2},
		{gsd.TypeInt16, 2},
		{gsd.TypeUint32, 4},
		{gsd.TypeInt32, 4},
		{gsd.TypeFloat32, 4},
		{gsd.TypeUint64, 8},
		{gsd.TypeInt64, 8},
		{gsd.TypeFloat64, 8},
	}
	for _, c := range cases {
		if got := gsd.SizeofType(c.typ); got != c.size {
			t.Errorf("SizeofType(%s) = %d, want %d", c.typ, got, c.size)
		}
		if !c.typ.Valid() {
			t.Errorf("%s should be Valid", c.typ)
		}
	}

	if gsd.ElementType(0).Valid() {
		t.Errorf("ElementType(0) should not be Valid")
	}
	if gsd.ElementType(200).Valid() {
		t.Errorf("ElementType(200) should not be Valid")
	}
	if gsd.SizeofType(gsd.ElementType(200)) != 0 {
		t.Errorf("SizeofType of unknown type should be 0")
	}
}

func TestOpenFlagString(t *testing.T) {
	cases := map[gsd.OpenFlag]string{
		gsd.ReadWrite: "read-write",
		gsd.ReadOnly:  "read-only",
		gsd.Append:    "append",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
	if got := gsd.OpenFlag(99).String(); got == "" {
		t.Errorf("unknown OpenFlag.String() should not be empty")
	}
}
