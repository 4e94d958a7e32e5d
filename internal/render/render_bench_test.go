package render

import "testing"

const benchReply = `## ജനന സർട്ടിഫിക്കറ്റ്

ജനന സർട്ടിഫിക്കറ്റിന് അപേക്ഷിക്കാൻ താഴെ പറയുന്ന രേഖകൾ വേണം:

• ആശുപത്രി രേഖ
• മാതാപിതാക്കളുടെ ആധാർ

| സേവനം | ഫീസ് |
|---|---|
| അപേക്ഷ | ₹0 |
`

func BenchmarkMarkdown(b *testing.B) {
	opts := DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Markdown(benchReply, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarkdownParallel(b *testing.B) {
	opts := DefaultOptions().WithStyle(StyleTeal)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Markdown(benchReply, opts); err != nil {
				b.Fatal(err)
			}
		}
	})
}
