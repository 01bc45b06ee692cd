package blob

import "testing"

func TestPathFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "encoded path with query",
			url:  "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/groups%2Flogo.png?alt=media&token=abc",
			want: "groups/logo.png",
		},
		{
			name: "plain path without query",
			url:  "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatar.png",
			want: "avatar.png",
		},
		{
			name: "no bucket marker",
			url:  "https://example.com/images/photo.png",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
		{
			name: "bad encoding",
			url:  "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/bad%zz?alt=media",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PathFromURL(tc.url); got != tc.want {
				t.Errorf("PathFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
