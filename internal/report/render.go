package report

import (
	"fmt"
	"strings"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

// reportLabels are the section headings of the rendered report.
type reportLabels struct {
	title         string
	fileInfo      string
	fileName      string
	date          string
	duration      string
	detectedLang  string
	spokenLang    string
	targetLang    string
	method        string
	statistics    string
	wordCount     string
	charCount     string
	transcription string
	analysis      string
	painHeading   string
	gainHeading   string
	generatedOn   string
	notSpecified  string
}

var englishLabels = reportLabels{
	title:         "AUDIO TRANSCRIPTION REPORT",
	fileInfo:      "File Information:",
	fileName:      "File Name",
	date:          "Date",
	duration:      "Duration",
	detectedLang:  "Detected Language",
	spokenLang:    "Spoken Language",
	targetLang:    "Target Language",
	method:        "Transcription Method",
	statistics:    "Statistics:",
	wordCount:     "Word Count",
	charCount:     "Character Count",
	transcription: "FULL TRANSCRIPTION",
	analysis:      "PAIN & GAIN ANALYSIS",
	painHeading:   "🔴 PAIN POINTS:",
	gainHeading:   "🟢 BENEFITS & GAINS:",
	generatedOn:   "Generated on",
	notSpecified:  "Not specified",
}

var thaiLabels = reportLabels{
	title:         "รายงานการถอดความเสียง",
	fileInfo:      "ข้อมูลไฟล์:",
	fileName:      "ชื่อไฟล์",
	date:          "วันที่",
	duration:      "ความยาว",
	detectedLang:  "ภาษาที่ตรวจพบ",
	spokenLang:    "ภาษาที่พูด",
	targetLang:    "ภาษาเป้าหมาย",
	method:        "วิธีการถอดความ",
	statistics:    "สถิติ:",
	wordCount:     "จำนวนคำ",
	charCount:     "จำนวนตัวอักษร",
	transcription: "ข้อความถอดความฉบับเต็ม",
	analysis:      "การวิเคราะห์ PAIN & GAIN",
	painHeading:   "🔴 ปัญหา (PAIN):",
	gainHeading:   "🟢 ประโยชน์ (GAIN):",
	generatedOn:   "สร้างเมื่อ",
	notSpecified:  "ไม่ระบุ",
}

// Render builds the human-readable report document for one record.
// Section labels follow the record's target language selection.
func Render(record domain.Record, method string) string {
	labels := englishLabels
	if record.Target == domain.TargetThai {
		labels = thaiLabels
	}

	rule := strings.Repeat("=", 50)
	orNotSpecified := func(value string) string {
		if strings.TrimSpace(value) == "" {
			return labels.notSpecified
		}
		return value
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", labels.title, rule)

	fmt.Fprintf(&b, "%s\n", labels.fileInfo)
	fmt.Fprintf(&b, "• %s: %s\n", labels.fileName, record.FileName)
	fmt.Fprintf(&b, "• %s: %s\n", labels.date, record.CreatedAt)
	fmt.Fprintf(&b, "• %s: %s\n", labels.duration, record.Duration)
	fmt.Fprintf(&b, "• %s: %s\n", labels.detectedLang, record.Language)
	fmt.Fprintf(&b, "• %s: %s\n", labels.spokenLang, orNotSpecified(record.SpokenLanguage))
	fmt.Fprintf(&b, "• %s: %s\n", labels.targetLang, orNotSpecified(string(record.Target)))
	fmt.Fprintf(&b, "• %s: %s\n\n", labels.method, orNotSpecified(method))

	fmt.Fprintf(&b, "%s\n", labels.statistics)
	fmt.Fprintf(&b, "• %s: %d\n", labels.wordCount, record.WordCount)
	fmt.Fprintf(&b, "• %s: %d\n\n", labels.charCount, record.CharCount)

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n%s\n\n", rule, labels.transcription, rule, record.Text)

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", rule, labels.analysis, rule)
	fmt.Fprintf(&b, "%s\n%s\n\n", labels.painHeading, record.PainSummary)
	fmt.Fprintf(&b, "%s\n%s\n\n", labels.gainHeading, record.GainSummary)

	fmt.Fprintf(&b, "%s\n%s %s", rule, labels.generatedOn, record.CreatedAt)

	return b.String()
}
