package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPosting_Selectors(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		platform Platform
		want     string
	}{
		{
			name:     "main element",
			html:     `<body><nav>Navigation</nav><main><p>Main Content</p></main><footer>Footer</footer></body>`,
			platform: PlatformUnknown,
			want:     "Main Content",
		},
		{
			name:     "job description beats main",
			html:     `<body><main><div class="job-description"><p>Build APIs</p></div><p>Other</p></main></body>`,
			platform: PlatformUnknown,
			want:     "Build APIs",
		},
		{
			name:     "fallback to body",
			html:     `<body><p>Just text</p><p>More</p></body>`,
			platform: PlatformUnknown,
			want:     "Just text\nMore",
		},
		{
			name:     "greenhouse",
			html:     `<body><div class="job__description body"><p>GH role</p></div><div class="application--wrapper">Apply</div></body>`,
			platform: PlatformGreenhouse,
			want:     "GH role",
		},
		{
			name:     "line breaks and spaces",
			html:     `<body><main><p>Line   one<br>Line two</p></main></body>`,
			platform: PlatformUnknown,
			want:     "Line one\nLine two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExtractPosting(tt.html, tt.platform)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Text)
		})
	}
}

func TestExtractPosting_Title(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"og title", `<head><meta property="og:title" content="Staff  Engineer"><title>x</title></head><body><h1>y</h1></body>`, "Staff Engineer"},
		{"h1", `<head><title>x</title></head><body><h1> SRE </h1></body>`, "SRE"},
		{"title tag", `<head><title>Data Engineer</title></head><body></body>`, "Data Engineer"},
		{"none", `<body><p>text</p></body>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExtractPosting(tt.html, PlatformUnknown)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Title)
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanWhitespace("  a \t b \n\n   \n c  "))
	assert.Equal(t, "", cleanWhitespace(" \n \n"))
}
