package criteria

const backgroundSystemPrompt = `You read the attached seed survey PDF and summarize its background in a
few sentences, for use as research context. Respond with plain text.`

const backgroundUserPrompt = `Summarize this paper's background and scope in 3-5 sentences.`

const researchSystemPrompt = `You research a systematic literature review's topic using web search.
Produce free-text research notes covering: a precise definition of the
topic, what related work exists, common evaluation practices, and
plausible reasons a candidate paper would be included or excluded.
Do not format as JSON.`

const researchUserTemplate = `Topic: {{.Topic}}
{{if .RecencyHint}}
Recency hint: {{.RecencyHint}}
{{end}}
{{if .PDFBackground}}
Seed paper background: {{.PDFBackground}}
{{end}}
Research this topic and write notes a criteria formatter can turn into
inclusion/exclusion rules.`

type researchTemplateData struct {
	Topic         string
	RecencyHint   string
	PDFBackground string
}

const formatterSystemPrompt = `You convert free-text research notes into a systematic literature
review's inclusion/exclusion criteria document. Respond with strict
JSON only, matching the requested schema exactly.

Rules:
- Never write a clause that depends on publication date or recency;
  time-based scoping belongs only in the cutoff_before_date field —
  omit time language from every clause's text.
- Never write a clause that excludes or includes based on literal
  string matching of a title; that belongs only in the exclude_title
  field.
- inclusion_criteria.required[0].text must be the exact topic
  definition, verbatim, copied into the top-level topic_definition
  field as well.`

const formatterUserTemplate = `Topic: {{.Topic}}

Research notes:
{{.Notes}}

Produce the criteria document: topic_definition, summary, summary_topics,
inclusion_criteria (required, any_of), exclusion_criteria (required, any_of).
Each clause needs text, rationale, and source_urls drawn from the research
notes where available.`

type formatterTemplateData struct {
	Topic string
	Notes string
}
