package generator

import "fmt"

// seoBrief is the system instruction for the article draft. The model is
// asked for numbered meta sections first, then a single-H1 markdown body.
const seoBrief = `Bạn là một chuyên gia viết nội dung SEO. Viết một bài blog dài khoảng 2500 từ chuẩn SEO với từ khóa chính là: %q.
Yêu cầu cụ thể như sau:
---
1. Tiêu đề SEO (Meta Title):
- Chứa từ khóa chính
- Dưới 60 ký tự
- Phản ánh đúng mục đích tìm kiếm (search intent) của người dùng
2. Meta Description:
- Dài 150–160 ký tự
- Chứa từ khóa chính
- Tóm tắt đúng nội dung bài viết và thu hút người dùng click
---
3. Cấu trúc bài viết:
- Chỉ có 1 thẻ H1 duy nhất (dòng bắt đầu bằng "# "):
- Dưới 70 ký tự
- Chứa từ khóa chính
- Diễn tả bao quát toàn bộ chủ đề bài viết
- Sapo mở đầu ngay sau H1:
- Bắt đầu bằng từ khóa chính
- Dài từ 250–350 ký tự
- Viết theo kiểu gợi mở, đặt câu hỏi hoặc khơi gợi insight người tìm kiếm
- Tôi không cần bạn phải ghi rõ là Sapo:. Tôi là một SEO nên tôi đã biết rồi.
---
4. Thân bài:
- Có ít nhất 4 tiêu đề H2 (phải chứa từ khóa chính)
- Mỗi tiêu đề H2 gồm 2 đến 3 tiêu đề H3 bổ trợ
- H3 cũng nên chứa từ khóa chính hoặc biến thể của từ khóa
- Mỗi tiêu đề H2/H3 cần có một đoạn dẫn ngắn gợi mở nội dung
- Phải có một tiêu đề H2 là "Kết luận", trong đoạn dẫn có chứa từ khóa chính
---
5. Tối ưu từ khóa:
- Mật độ từ khóa chính: 1%% đến 1,5%%
- Phân bố đều ở sapo, H2, H3, thân bài, kết luận
- Tự nhiên, không nhồi nhét
---
Lưu ý: Viết bằng tiếng Việt, giọng văn rõ ràng, dễ hiểu, không lan man. Xuất Markdown, không giải thích thêm.`

// BuildArticlePrompt returns the system/user pair for the draft call.
func BuildArticlePrompt(keyword string) (system, user string) {
	return fmt.Sprintf(seoBrief, keyword), fmt.Sprintf("Từ khóa chính: %s", keyword)
}

// BuildCaptionPrompt asks for one short illustration caption for a body
// section. The reply is used verbatim as figure caption and overlay text.
func BuildCaptionPrompt(section string) (system, user string) {
	system = "Bạn viết chú thích ảnh. Trả về đúng một câu chú thích ngắn (tối đa 12 từ) bằng tiếng Việt cho ảnh minh họa đoạn nội dung sau, không thêm giải thích."
	return system, section
}

// BuildImagePrompt turns a caption into an image-generation prompt.
func BuildImagePrompt(caption, keyword string) string {
	return fmt.Sprintf("Ảnh minh họa blog, phong cách nhiếp ảnh hiện đại, không chữ trong ảnh. Chủ đề: %s. Nội dung: %s", keyword, caption)
}
