package models

// FactorKey identifies a composite learning trait derived from the intake survey.
type FactorKey string

const (
	FactorAttitude            FactorKey = "attitude"
	FactorSelfDirected        FactorKey = "self_directed"
	FactorAssignment          FactorKey = "assignment"
	FactorWillingness         FactorKey = "willingness"
	FactorSociability         FactorKey = "sociability"
	FactorManagement          FactorKey = "management"
	FactorEmotionalConfidence FactorKey = "emotional_confidence"
)

// FactorOrder fixes iteration order wherever factors are rendered or compared.
var FactorOrder = []FactorKey{
	FactorAttitude,
	FactorSelfDirected,
	FactorAssignment,
	FactorWillingness,
	FactorSociability,
	FactorManagement,
	FactorEmotionalConfidence,
}

// FactorLabels maps factor keys to their staff-facing names.
var FactorLabels = map[FactorKey]string{
	FactorAttitude:            "Learning Attitude",
	FactorSelfDirected:        "Self-Directed Learning",
	FactorAssignment:          "Assignment Completion",
	FactorWillingness:         "Willingness to Learn",
	FactorSociability:         "Sociability",
	FactorManagement:          "Management Preference",
	FactorEmotionalConfidence: "Emotional Confidence",
}

// FactorItems maps each factor to the 1-based survey item indices feeding it.
// The seven sets partition all 30 items.
var FactorItems = map[FactorKey][]int{
	FactorAttitude:            {1, 2, 3, 4, 5},
	FactorSelfDirected:        {6, 7, 8, 9, 10},
	FactorAssignment:          {11, 12, 13, 14},
	FactorWillingness:         {15, 16, 17, 18, 19},
	FactorSociability:         {20, 21, 22, 23},
	FactorManagement:          {24, 25, 26},
	FactorEmotionalConfidence: {27, 28, 29, 30},
}

// SurveyItemCount is the fixed number of Likert items on the intake survey.
const SurveyItemCount = 30

// QuestionCatalogue holds the literal item texts in survey order (index 0 is item 1).
var QuestionCatalogue = [SurveyItemCount]string{
	"I sit down to study without being told to.",
	"I keep my focus during a full study session.",
	"I prepare my materials before class starts.",
	"I take notes that I can use again later.",
	"I review what I learned on the same day.",
	"I set my own study goals for the week.",
	"I look up things I do not understand on my own.",
	"I can plan my study schedule without help.",
	"I check my own answers before asking for help.",
	"I adjust my study method when it is not working.",
	"I finish my homework before the due date.",
	"I do every part of an assignment, not just the easy parts.",
	"I redo work that came back with mistakes.",
	"I keep track of what assignments I still owe.",
	"I want to understand topics beyond what the test requires.",
	"I feel excited when I start learning something new.",
	"I keep trying after getting a problem wrong several times.",
	"I ask questions in class when I am curious.",
	"I study even for subjects I dislike.",
	"I enjoy studying together with other students.",
	"I am comfortable asking classmates for help.",
	"I explain things to friends who are struggling.",
	"I get along with new people in a class quickly.",
	"I do better when someone checks my progress regularly.",
	"I like having a fixed schedule set by a teacher.",
	"I follow the academy's study plan without changing it.",
	"I stay calm when a test is harder than expected.",
	"I believe my grades can improve with effort.",
	"I recover quickly after a disappointing score.",
	"I feel confident speaking about what I know.",
}
