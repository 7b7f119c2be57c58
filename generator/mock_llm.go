package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a placeholder implementation for local debugging; it never
// calls an external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, system, user string) (string, error) {
	if strings.Contains(system, "chú thích") {
		return "Ảnh minh họa nội dung bài viết", nil
	}
	var sb strings.Builder
	sb.WriteString("1. Tiêu đề SEO (Meta Title): Bài viết mẫu\n")
	sb.WriteString("2. Meta Description: Mô tả mẫu cho bài viết tự sinh.\n")
	sb.WriteString("# Tiêu đề mẫu\n\n")
	sb.WriteString("Đoạn mở đầu được sinh tự động.\n\n")
	sb.WriteString("## Nội dung\n\n")
	sb.WriteString(fmt.Sprintf("Nội dung sinh từ yêu cầu:\n\n```\n%s\n```\n", user))
	return sb.String(), nil
}

func (m MockLLM) GenerateImage(_ context.Context, _ string) (string, error) {
	return "https://example.invalid/mock.png", nil
}
