package layout

import "golang.org/x/image/font"

// QnAGap is the vertical space between the question block and the answer
// block of an inline question/answer element.
const QnAGap = 6.0

// QnALayout is the combined layout of an inline question/answer block. The
// answer runs are positioned below the question; ruled lines belong to the
// answer area only.
type QnALayout struct {
	Question TextLayout
	Answer   TextLayout
	AnswerY  float64 // offset of the answer block below the content origin
	Height   float64
	Overflow bool
}

// LayoutQnA lays out a question above its answer inside one content box.
// The answer always carries ruled lines; empty answers still reserve a
// single ruled line so there is somewhere to write.
func LayoutQnA(question, answer string, qFace, aFace font.Face, maxWidth, maxHeight, qLineHeight, aLineHeight float64) QnALayout {
	q := LayoutText(question, qFace, maxWidth, 0, qLineHeight)
	answerY := q.Height + QnAGap

	remaining := maxHeight - answerY
	if maxHeight <= 0 {
		remaining = 0
	}
	a := LayoutText(answer, aFace, maxWidth, remaining, aLineHeight).WithRuledLines()
	if len(a.Runs) == 0 {
		a.RuledLines = []float64{Ascent(aFace) + RuledLineGap}
		a.Height = a.LineHeight
	}

	height := answerY + a.Height
	return QnALayout{
		Question: q,
		Answer:   a,
		AnswerY:  answerY,
		Height:   height,
		Overflow: maxHeight > 0 && height > maxHeight,
	}
}
