package hotcache

import "testing"

func TestFSKeyCanonicalizeJoinsRoot(t *testing.T) {
	k := NewFSKey("zoo.json").Canonicalize("/data")
	if got, want := k.String(), "/data/zoo.json"; got != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestFSKeyCanonicalizeTreatsLeadingSlashAsRootRelative(t *testing.T) {
	a := NewFSKey("/zoo.json").Canonicalize("/data")
	b := NewFSKey("zoo.json").Canonicalize("/data")
	if a.String() != b.String() {
		t.Fatalf("leading slash should canonicalize the same as a bare relative path: %q vs %q", a.String(), b.String())
	}
}

func TestFSKeyCanonicalizeCleansPath(t *testing.T) {
	k := NewFSKey("a/../b.json").Canonicalize("/data")
	if got, want := k.String(), "/data/b.json"; got != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestLogicalKeyCanonicalizeIsIdentity(t *testing.T) {
	k := NewLogicalKey("composite:home")
	if k.Canonicalize("/anything").String() != k.String() {
		t.Fatalf("LogicalKey.Canonicalize should not alter the key")
	}
}

func TestDepKeyStringDistinguishesKinds(t *testing.T) {
	fsDep := NewFSKey("zoo.json").Canonicalize("/data").ToDepKey()
	logicalDep := NewLogicalKey("zoo.json").ToDepKey()
	if fsDep.String() == logicalDep.String() {
		t.Fatalf("an FS DepKey and a LogicalKey DepKey sharing a value must render distinctly: %q", fsDep.String())
	}
}

func TestFSKeyDepKeyCanonicalizationMatchesKeyCanonicalization(t *testing.T) {
	k := NewFSKey("a/../b.json")
	fromKey := k.Canonicalize("/data").ToDepKey()
	fromDep := k.ToDepKey().canonicalize("/data")
	if fromKey != fromDep {
		t.Fatalf("canonicalizing before or after ToDepKey must agree: %v vs %v", fromKey, fromDep)
	}
}
