package analysis

import (
	"fmt"
	"strings"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

const promptMS = `Berlakon sebagai Pakar Kesihatan Awam dan Komunikasi Risiko di JKN Kedah.
Analisis senarai berita berikut secara berasingan:
%s
Sila berikan output dalam format Markdown yang kemas.
Bagi SETIAP isu, berikan:
1. **Isu**: (Tajuk Isu)
2. **Sentiment**: (Positif/Negatif/Neutral)
3. **Tahap Risiko**: (Skor 1-10 & sebab)
4. **Cadangan**: (Tindakan JKN Kedah)
5. **Status Fakta**: (Sahih/Rumor/Clickbait)
Gunakan format 'card' atau pembahagi yang jelas antara isu.`

const promptEN = `Act as a Public Health and Risk Communication Expert at the Kedah State Health Department (JKN Kedah).
Analyse each of the following news items separately:
%s
Respond in clean Markdown.
For EACH issue, provide:
1. **Issue**: (Issue title)
2. **Sentiment**: (Positive/Negative/Neutral)
3. **Risk Level**: (Score 1-10 & rationale)
4. **Recommendation**: (Action for JKN Kedah)
5. **Fact Status**: (Verified/Rumor/Clickbait)
Use a 'card' layout or a clear divider between issues.`

// BuildPrompt 按 ResultSet 顺序生成分析 prompt，相同输入总是得到相同输出
func BuildPrompt(rs model.ResultSet, lang string) string {
	label, tpl := "ISU", promptMS
	if lang == "en" {
		label, tpl = "ISSUE", promptEN
	}

	var sb strings.Builder
	for i, item := range rs {
		fmt.Fprintf(&sb, "%s %d: %s\n", label, i+1, item.Title)
	}
	return fmt.Sprintf(tpl, sb.String())
}
