package gemini

import (
	"fmt"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
)

const thaiPrompt = `กรุณาถอดเสียงไฟล์เสียงต่อไปนี้เป็นภาษาไทยทั้งหมด รวมถึงส่วนวิเคราะห์ "Pain" และ "Gain" ห้ามมีภาษาอังกฤษหรือคำแปลในวงเล็บ

จัดรูปแบบผลลัพธ์ดังนี้:

SEGMENTS:
[HH:MM:SS] ผู้พูด: [ข้อความของช่วงนั้นเป็นภาษาไทย]

TRANSCRIPTION:
[ข้อความถอดเสียงเป็นภาษาไทย]

ANALYSIS:
Pain: [รายละเอียดปัญหาหรือความท้าทายเป็นภาษาไทย]
Gain: [รายละเอียดประโยชน์หรือข้อดีเป็นภาษาไทย]

LANGUAGE: [ตรวจพบภาษาหลักของผู้พูด]`

const englishPrompt = `Please transcribe the following audio file in English. Then analyze the key "Pain" and "Gain" themes in English.

Format your response EXACTLY as follows:

SEGMENTS:
[HH:MM:SS] Speaker: [utterance text in English]

TRANSCRIPTION:
[Full transcription in English]

ANALYSIS:
Pain: [Detailed pain points in English]
Gain: [Detailed benefits in English]

LANGUAGE: [Detected primary language of the speaker]`

const bothPrompt = `Please transcribe the following audio file in its original spoken language, followed by an English translation. Then analyze the key "Pain" and "Gain" themes in English.

Format your response EXACTLY as follows:

SEGMENTS:
[HH:MM:SS] Speaker: [utterance text in the original language]

TRANSCRIPTION:
[Full transcription in the original language, then the English translation]

ANALYSIS:
Pain: [Detailed pain points in English]
Gain: [Detailed benefits in English]

LANGUAGE: [Detected primary language of the speaker]`

// Prompt returns the structured instruction for the primary model. The
// section markers and their order are load-bearing: the response parser
// locates each block by these literal labels.
func Prompt(target domain.TargetLanguage) string {
	switch target {
	case domain.TargetThai:
		return thaiPrompt
	case domain.TargetBoth:
		return bothPrompt
	default:
		return englishPrompt
	}
}

// LegacyPrompt returns the simplified single-paragraph instruction for
// the legacy model, which cannot reliably follow the sectioned format.
func LegacyPrompt(target domain.TargetLanguage, spokenLanguage string) string {
	if target == domain.TargetThai {
		return "กรุณาถอดเสียงไฟล์เสียงนี้เป็นภาษาไทยทั้งหมด รวมถึงการวิเคราะห์ปัญหาและประโยชน์ที่กล่าวถึง ห้ามมีภาษาอังกฤษหรือคำแปลในวงเล็บ"
	}
	return fmt.Sprintf("Please transcribe this audio file in English. The speaker is likely speaking in %s. Provide the transcription in English and briefly analyze any pain points and benefits mentioned.", spokenLanguage)
}
