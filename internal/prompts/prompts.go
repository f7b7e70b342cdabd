// Package prompts builds the system-prompt + user-content pairs for every
// generative task. Builders are pure functions of their inputs; prompt text
// for structured tasks forces strict JSON output via explicit schema
// description, paired with the gateway's JSON response-format hint.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mamamath/mothermath-backend/internal/types"
)

// Request is a prompt pair ready for the gateway.
type Request struct {
	System string
	User   string
}

const outlineSystem = `You are an AI assistant for "Mothers for Mathematics". Your task is to generate a structured lesson plan based on a given topic. The response MUST be a valid JSON object.`

// Outline asks for the wizard's initial 5-7 section scaffold.
func Outline(topic, level string) Request {
	user := fmt.Sprintf(`Based on the topic "%s" for %s students in Cameroon, generate a structured lesson plan outline. You must provide between 5 and 7 sections. Respond with ONLY a valid JSON object in the following format: { "sections": [{"title": "SECTION_TITLE", "keyPoints": "KEY_POINTS_HERE"}] }`, topic, level)
	return Request{System: outlineSystem, User: user}
}

// LessonPlan asks for the full detailed plan over the user's scaffold.
// Section order in the prompt equals scaffold order; the model is instructed
// to use the same titles.
func LessonPlan(topic, level string, sections []types.LessonSection) Request {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, fmt.Sprintf("%q", s.Title))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert instructional designer specializing in creating exceptionally detailed, comprehensive, and explanatory mathematics lesson plans. Your task is to generate an exhaustive and deeply detailed lesson plan for a "%s" class on the topic: "%s".

Your response MUST be a single JSON object with a root key "lessonPlan".

The "lessonPlan" object must contain:
1.  "title": A concise and descriptive title for the lesson.
2.  "gradeLevel": The target grade level ("%s").
3.  "subject": "Mathematics".
4.  "topic": The specific topic ("%s").
5.  "lessonObjectives": An array of at least 3 clear, measurable, and detailed learning objectives.
6.  "materials": A comprehensive array of all necessary materials, including digital resources if applicable.
7.  "sections": An array of objects for the main lesson parts: %s. Each section object MUST have the following keys:
    - "title": The section title (e.g., "INTRODUCTION").
    - "teacherActivities": An array of strings describing the teacher's actions. This must be extremely detailed, providing not just instructions but also the actual content the teacher should use, with concrete examples, sample questions, and brief scripts.
    - "learnerActivities": An equally detailed list of the learners' corresponding actions, responses, and expected thought processes.
8.  "evaluation": An object with a "description" key containing a highly detailed and multi-faceted plan for assessing student understanding, covering formative and summative strategies.
9.  "assignment": An object with a "description" key for the homework task, with clear instructions and an example if the task is complex.

Ensure the entire output is a single, valid JSON object. Do not include any explanatory text outside of the JSON structure itself.`,
		level, topic, level, topic, strings.Join(titles, ", "))

	return Request{System: outlineSystem, User: b.String()}
}

// StoryLessonPlan asks for the story-based superset plan with Cameroonian
// characters and settings.
func StoryLessonPlan(topic, level string, sections []types.LessonSection) Request {
	details := make([]string, 0, len(sections))
	for _, s := range sections {
		details = append(details, fmt.Sprintf("%q: %s", s.Title, s.KeyPoints))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert in creating engaging, culturally relevant mathematical stories for young learners in Cameroon. Your task is to generate a comprehensive story-based lesson plan for a "%s" class on the topic: "%s".

The teacher has defined the following lesson structure:
%s

Your response MUST be a single JSON object with a root key "storyLessonPlan".

The "storyLessonPlan" object must contain:
1. "title": A concise title for the story lesson.
2. "gradeLevel": The target grade level ("%s").
3. "subject": "Mathematics".
4. "topic": The specific topic ("%s").
5. "storyTheme": A brief description of the story's main theme.
6. "storyOverview": A 2-3 sentence summary of the complete story.
7. "characters": An array of character objects with Cameroonian names (for example Ambe, Manka, Chia, Ngum), each with "name" and "description" keys.
8. "setting": The local Cameroonian setting (e.g. "Mile 3 Bamenda", "Ntarinkon Market", "village school", "family compound").
9. "lessonObjectives": An array of at least 3 measurable learning objectives.
10. "materials": An array of required materials, preferring locally available objects.
11. "storySections": An array following the teacher's structure. Each section object MUST have:
    - "title": The section title.
    - "storyContent": The actual story narrative (3-4 paragraphs, age-appropriate language with dialogue).
    - "mathConcept": The specific mathematical concept being taught.
    - "teacherGuidance": An array of detailed instructions for the teacher (what to say, questions to ask).
    - "studentActivities": An array of specific activities students do (counting, grouping, acting out).
12. "practiceActivities": An array of 4-5 follow-up activities that extend the story.
13. "assessment": An object with a "description" key for evaluating understanding through the story context.
14. "extensionActivities": An array of activities for advanced learners or homework.
15. "culturalConnections": How the story connects to Cameroonian daily life and culture.

Ensure the entire output is a single, valid JSON object with no text outside the JSON structure.`,
		level, topic, strings.Join(details, "\n"), level, topic)

	return Request{System: outlineSystem, User: b.String()}
}

// Chatbot returns the grade-anchored system prompt for a curriculum
// assistant turn. The user message and history are passed through verbatim.
func Chatbot(grade string) string {
	return fmt.Sprintf(`You are MAMA (Mathematics Assistant for Cameroon), an AI teaching assistant specialized in Cameroon's primary mathematics curriculum. You are currently assisting a teacher for Primary %[1]s. All your responses must be tailored specifically to this grade level.

You help teachers with:
- Mathematics curriculum guidance for Cameroon National Primary Mathematics Standards for Primary %[1]s.
- Lesson planning and teaching strategies for Primary %[1]s.
- Student assessment and progress tracking for Primary %[1]s.
- Explaining mathematical concepts appropriate for Primary %[1]s.
- Cultural integration of local Cameroonian contexts in math education for Primary %[1]s.

Key Guidelines:
- Your primary focus is Primary %[1]s. All examples, explanations, and advice must be suitable for a child in this class.
- Always provide culturally relevant examples using Cameroonian contexts (CFA francs, local markets, familiar foods, etc.).
- Use simple, clear language appropriate for Primary %[1]s.
- Provide specific, actionable advice for teachers relevant to Primary %[1]s.

Be helpful, encouraging, and educational in all responses, ensuring they are directly applicable to Primary %[1]s.`, grade)
}

// WorkAnalysis is the system prompt for multimodal student-work review.
const WorkAnalysis = `You are an AI assistant for "Mothers for Mathematics", a project helping teachers and parents in Cameroon with mathematics education. You specialize in providing feedback on student work using Math Error Analysis principles. When analyzing student work, identify:
- Specific error types (e.g., incorrect counting, mixed grouping, etc.)
- Root causes of mathematical misunderstandings
- Practical remediation strategies that parents or teachers can implement

Always be encouraging, use simple language, and provide actionable advice. Use markdown formatting, including headings, to structure the analysis and make it easy to read. The user has uploaded an image of student work. Analyze it for mathematical errors, providing specific feedback on what the student did correctly and incorrectly. Suggest practical remediation activities.`

// Feedback builds the transcript-analysis prompt. The transcript must be
// non-empty; validation happens before any network call.
func Feedback(transcript []types.TranscriptEntry) (Request, error) {
	if len(transcript) == 0 {
		return Request{}, types.ErrEmptyTranscript
	}
	encoded, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return Request{}, fmt.Errorf("encode transcript: %w", err)
	}

	system := `You are an expert teacher trainer and instructional coach. A user has just completed a mock interview to practice their teaching skills. Your task is to analyze the interview transcript and provide constructive, specific, and encouraging feedback.

The transcript is provided as a JSON array of objects, where 'role' is either 'assistant' (the interviewer) or 'user' (the teacher).

Please structure your feedback into the following sections:
1.  **Overall Summary:** A brief overview of the user's performance.
2.  **Strengths:** Identify 2-3 specific things the user did well. Quote parts of their answers to support your points.
3.  **Areas for Improvement:** Identify 2-3 areas where the user could improve. Provide actionable suggestions and re-frame their responses where appropriate.
4.  **Concluding Remarks:** End with an encouraging and motivational statement.

Your feedback should be formatted in clear Markdown.`

	return Request{System: system, User: "Transcript:\n" + string(encoded)}, nil
}

// InterviewQuestions asks for the question set of a new mock interview,
// tailored to the candidate's target role and focus area.
func InterviewQuestions(role, level, topic, focus string, timeMinutes int) Request {
	user := fmt.Sprintf(`Generate interview questions for a mock teaching interview with the following profile:
- Position: %s
- School level: %s
- Subject topic: %s
- Focus area: %s
- Interview length: about %d minutes

Produce enough questions to fill the interview length, assuming 2-3 minutes per answer. Questions should probe pedagogy, classroom management and subject knowledge for the given topic, and stay realistic for a school interview in Cameroon. Respond with ONLY a valid JSON object in the following format: { "questions": ["QUESTION_1", "QUESTION_2"] }`,
		role, level, topic, focus, timeMinutes)
	return Request{System: outlineSystem, User: user}
}

// InterviewAssistant builds the voice assistant's system prompt: the ordered
// question list embedded with the user's name, asked one at a time.
func InterviewAssistant(userName string, questions []string) (string, error) {
	if len(questions) == 0 {
		return "", types.ErrNoQuestions
	}
	numbered := make([]string, 0, len(questions))
	for i, q := range questions {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, q))
	}
	return fmt.Sprintf(`You are a friendly and professional interviewer conducting a mock interview for a teaching position. Your name is Eva. The user's name is %s. Your task is to ask the user the following questions one by one. Do not ask them all at once. After you ask a question, wait for the user's full response before moving to the next one. After the last question, thank the user for their time and end the conversation by saying 'Interview complete.' Here are the questions:

%s`, userName, strings.Join(numbered, "\n")), nil
}
