package semver_test

import (
	"testing"

	"github.com/anttikivi/cln/internal/semver"
)

var tests = []struct { //nolint:gochecknoglobals
	in  string
	out string
}{
	{"", ""},

	{"0.1.0-alpha.24+sha.19031c2.darwin.amd64", "0.1.0-alpha.24"},
	{"0.1.0-alpha.24+sha.19031c2-darwin-amd64", "0.1.0-alpha.24"},

	{"bad", ""},
	{"1-alpha.beta.gamma", ""},
	{"1-pre", ""},
	{"1+meta", ""},
	{"1-pre+meta", ""},
	{"1.2-pre", ""},
	{"1.2+meta", ""},
	{"1.2-pre+meta", ""},
	{"1.0.0-alpha", "1.0.0-alpha"},
	{"1.0.0-alpha.1", "1.0.0-alpha.1"},
	{"1.0.0-alpha.beta", "1.0.0-alpha.beta"},
	{"1.0.0-beta", "1.0.0-beta"},
	{"1.0.0-beta.2", "1.0.0-beta.2"},
	{"1.0.0-beta.11", "1.0.0-beta.11"},
	{"1.0.0-rc.1", "1.0.0-rc.1"},
	{"1", ""},
	{"1.0", ""},
	{"1.0.0", "1.0.0"},
	{"1.2", ""},
	{"1.2.0", "1.2.0"},
	{"1.2.3-456", "1.2.3-456"},
	{"1.2.3-456.789", "1.2.3-456.789"},
	{"1.2.3-456-789", "1.2.3-456-789"},
	{"1.2.3-456a", "1.2.3-456a"},
	{"1.2.3-pre", "1.2.3-pre"},
	{"1.2.3-pre+meta", "1.2.3-pre"},
	{"1.2.3-pre.1", "1.2.3-pre.1"},
	{"1.2.3-zzz", "1.2.3-zzz"},
	{"1.2.3", "1.2.3"},
	{"1.2.3+meta", "1.2.3"},
	{"1.2.3+meta-pre", "1.2.3"},
	{"1.2.3+meta-pre.sha.256a", "1.2.3"},

	{"vbad", ""},
	{"v1-alpha.beta.gamma", ""},
	{"v1-pre", ""},
	{"v1+meta", ""},
	{"v1-pre+meta", ""},
	{"v1.2-pre", ""},
	{"v1.2+meta", ""},
	{"v1.2-pre+meta", ""},
	{"v1.0.0-alpha", "1.0.0-alpha"},
	{"v1.0.0-alpha.1", "1.0.0-alpha.1"},
	{"v1.0.0-alpha.beta", "1.0.0-alpha.beta"},
	{"v1.0.0-beta", "1.0.0-beta"},
	{"v1.0.0-beta.2", "1.0.0-beta.2"},
	{"v1.0.0-beta.11", "1.0.0-beta.11"},
	{"v1.0.0-rc.1", "1.0.0-rc.1"},
	{"v1", ""},
	{"v1.0", ""},
	{"v1.0.0", "1.0.0"},
	{"v1.2", ""},
	{"v1.2.0", "1.2.0"},
	{"v1.2.3-456", "1.2.3-456"},
	{"v1.2.3-456.789", "1.2.3-456.789"},
	{"v1.2.3-456-789", "1.2.3-456-789"},
	{"v1.2.3-456a", "1.2.3-456a"},
	{"v1.2.3-pre", "1.2.3-pre"},
	{"v1.2.3-pre+meta", "1.2.3-pre"},
	{"v1.2.3-pre.1", "1.2.3-pre.1"},
	{"v1.2.3-zzz", "1.2.3-zzz"},
	{"v1.2.3", "1.2.3"},
	{"v1.2.3+meta", "1.2.3"},
	{"v1.2.3+meta-pre", "1.2.3"},
	{"v1.2.3+meta-pre.sha.256a", "1.2.3"},

	{"clnbad", ""},
	{"cln1-alpha.beta.gamma", ""},
	{"cln1-pre", ""},
	{"cln1+meta", ""},
	{"cln1-pre+meta", ""},
	{"cln1.2-pre", ""},
	{"cln1.2+meta", ""},
	{"cln1.2-pre+meta", ""},
	{"cln1.0.0-alpha", "1.0.0-alpha"},
	{"cln1.0.0-alpha.1", "1.0.0-alpha.1"},
	{"cln1.0.0-alpha.beta", "1.0.0-alpha.beta"},
	{"cln1.0.0-beta", "1.0.0-beta"},
	{"cln1.0.0-beta.2", "1.0.0-beta.2"},
	{"cln1.0.0-beta.11", "1.0.0-beta.11"},
	{"cln1.0.0-rc.1", "1.0.0-rc.1"},
	{"cln1", ""},
	{"cln1.0", ""},
	{"cln1.0.0", "1.0.0"},
	{"cln1.2", ""},
	{"cln1.2.0", "1.2.0"},
	{"cln1.2.3-456", "1.2.3-456"},
	{"cln1.2.3-456.789", "1.2.3-456.789"},
	{"cln1.2.3-456-789", "1.2.3-456-789"},
	{"cln1.2.3-456a", "1.2.3-456a"},
	{"cln1.2.3-pre", "1.2.3-pre"},
	{"cln1.2.3-pre+meta", "1.2.3-pre"},
	{"cln1.2.3-pre.1", "1.2.3-pre.1"},
	{"cln1.2.3-zzz", "1.2.3-zzz"},
	{"cln1.2.3", "1.2.3"},
	{"cln1.2.3+meta", "1.2.3"},
	{"cln1.2.3+meta-pre", "1.2.3"},
	{"cln1.2.3+meta-pre.sha.256a", "1.2.3"},

	{"clnclibad", ""},
	{"clncli1-alpha.beta.gamma", ""},
	{"clncli1-pre", ""},
	{"clncli1+meta", ""},
	{"clncli1-pre+meta", ""},
	{"clncli1.2-pre", ""},
	{"clncli1.2+meta", ""},
	{"clncli1.2-pre+meta", ""},
	{"clncli1.0.0-alpha", "1.0.0-alpha"},
	{"clncli1.0.0-alpha.1", "1.0.0-alpha.1"},
	{"clncli1.0.0-alpha.beta", "1.0.0-alpha.beta"},
	{"clncli1.0.0-beta", "1.0.0-beta"},
	{"clncli1.0.0-beta.2", "1.0.0-beta.2"},
	{"clncli1.0.0-beta.11", "1.0.0-beta.11"},
	{"clncli1.0.0-rc.1", "1.0.0-rc.1"},
	{"clncli1", ""},
	{"clncli1.0", ""},
	{"clncli1.0.0", "1.0.0"},
	{"clncli1.2", ""},
	{"clncli1.2.0", "1.2.0"},
	{"clncli1.2.3-456", "1.2.3-456"},
	{"clncli1.2.3-456.789", "1.2.3-456.789"},
	{"clncli1.2.3-456-789", "1.2.3-456-789"},
	{"clncli1.2.3-456a", "1.2.3-456a"},
	{"clncli1.2.3-pre", "1.2.3-pre"},
	{"clncli1.2.3-pre+meta", "1.2.3-pre"},
	{"clncli1.2.3-pre.1", "1.2.3-pre.1"},
	{"clncli1.2.3-zzz", "1.2.3-zzz"},
	{"clncli1.2.3", "1.2.3"},
	{"clncli1.2.3+meta", "1.2.3"},
	{"clncli1.2.3+meta-pre", "1.2.3"},
	{"clncli1.2.3+meta-pre.sha.256a", "1.2.3"},
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	for _, tt := range tests {
		ok := semver.IsValid(tt.in)
		if ok != (tt.out != "") {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, ok, !ok)
		}
	}
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	for _, tt := range tests {
		// Don't test the cases where the versions don't parse.
		if tt.out != "" {
			v, _ := semver.Parse(tt.in)

			ok := v.String() == tt.out
			if !ok {
				t.Errorf("Version{%q}.String() = %v, want %v", tt.in, v, tt.out)
			}
		}
	}
}