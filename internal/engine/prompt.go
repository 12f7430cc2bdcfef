package engine

// Model prompt templates. Data only, no logic.
//
// The SUMMARY / QUESTIONS / FLASHCARDS markers and the Q<n>:/A<n>: and
// "N. Front:/Back:" item formats are a contract shared with materials.go.
// Changing one side requires changing the other in lockstep.

// topicPrompt turns a free-text learning preference into a short search topic.
// Args: preference.
const topicPrompt = `Extract the main technology or subject the user wants to learn.
Output ONLY a search phrase of the form "<technology> tutorial", at most 4 words,
no explanation, no punctuation, no quotes.

User preference: %s`

// materialsPrompt asks for summary, quiz and flashcards in one delimited block.
// Args: title, topic, transcript.
const materialsPrompt = `You are creating study materials from a video transcript.
Video title: %s
Topic: %s

Using ONLY information from the transcript below, produce exactly three sections
with these markers, in this order:

SUMMARY:
A concise summary of the video in 4-6 sentences.

QUESTIONS:
Exactly 5 quiz questions with answers, formatted as:
Q1: <question>
A1: <answer>
Q2: <question>
A2: <answer>
(and so on through Q5/A5)

FLASHCARDS:
Exactly 5 flashcards, formatted as:
1. Front: <term or question> Back: <definition or answer>
2. Front: <term or question> Back: <definition or answer>
(and so on through 5)

Do not add any other sections or commentary.

Transcript:
%s`

// planPrompt asks for a cross-video learning plan.
// Args: summary count, topic, numbered title+summary list.
const planPrompt = `You are a learning advisor. A student collected the %d video summaries
below while studying "%s". Create a learning plan that covers:
1. Recommended viewing order, with a one-line reason per video
2. Key concepts the videos have in common
3. What the student should be able to do after finishing
4. 2-3 practice exercises

Video summaries:
%s`
