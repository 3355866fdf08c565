package github

import (
	"reflect"
	"testing"
)

func TestExtractAttachmentURLs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "markdown image on user-images host",
			body: "Before ![screenshot](https://user-images.githubusercontent.com/1/shot.png) after",
			want: []string{"https://user-images.githubusercontent.com/1/shot.png"},
		},
		{
			name: "user-attachments asset link",
			body: "See https://github.com/user-attachments/assets/abc-123",
			want: []string{"https://github.com/user-attachments/assets/abc-123"},
		},
		{
			name: "html img tag",
			body: `<img src="https://user-images.githubusercontent.com/2/diagram.png" width="400">`,
			want: []string{"https://user-images.githubusercontent.com/2/diagram.png"},
		},
		{
			name: "repo file upload",
			body: "Log: https://github.com/acme/widgets/files/9/crash.log",
			want: []string{"https://github.com/acme/widgets/files/9/crash.log"},
		},
		{
			name: "duplicates collapse",
			body: "![a](https://user-images.githubusercontent.com/1/x.png) and again " +
				"https://user-images.githubusercontent.com/1/x.png",
			want: []string{"https://user-images.githubusercontent.com/1/x.png"},
		},
		{
			name: "no attachments",
			body: "Plain text with a link to https://example.com/page",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAttachmentURLs(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractAttachmentURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}
