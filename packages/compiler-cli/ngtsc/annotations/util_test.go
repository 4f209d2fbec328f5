package annotations

import (
	"testing"
)

func TestRelativeToRootDirs(t *testing.T) {
	cases := []struct {
		name     string
		file     string
		rootDirs []string
		want     string
	}{
		{
			name:     "single root",
			file:     "/project/src/app/cmp.ts",
			rootDirs: []string{"/project/src"},
			want:     "app/cmp.ts",
		},
		{
			name:     "shortest relative path wins",
			file:     "/project/src/app/cmp.ts",
			rootDirs: []string{"/project", "/project/src/app"},
			want:     "cmp.ts",
		},
		{
			name:     "first root wins ties",
			file:     "/gen/out/cmp.ts",
			rootDirs: []string{"/gen/out", "/gen/alt"},
			want:     "cmp.ts",
		},
		{
			name:     "outside every root",
			file:     "/elsewhere/cmp.ts",
			rootDirs: []string{"/project/src"},
			want:     "/elsewhere/cmp.ts",
		},
		{
			name:     "trailing slash on root",
			file:     "/project/src/cmp.ts",
			rootDirs: []string{"/project/src/"},
			want:     "cmp.ts",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := relativeToRootDirs(tc.file, tc.rootDirs); got != tc.want {
				t.Errorf("relativeToRootDirs(%q, %v) = %q, want %q", tc.file, tc.rootDirs, got, tc.want)
			}
		})
	}
}
