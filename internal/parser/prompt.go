package parser

// BuildStationPrompt returns the extraction prompt for OSCE station documents.
// It is a pure function of the source text: the instruction template is fixed,
// and the verbatim text is appended at the end with no truncation.
func BuildStationPrompt(text string) string {
	return `You are provided text describing one or more OSCE stations. You must extract and parse
the following fields for each station:

- actorBrief
- examinerBrief
- markscheme
- category
- stationName
- candidateBrief

Each of these must be treated as a string and should retain every word, including markdown or quotes.

You MUST ensure you do not summarise or omit any detail. You must include every aspect, paragraph, and nuance from the text.
If there are multiple stations, each should be numbered and output separately in a JSON object (like 0, 1, 2, etc.).

For example:

actorBrief: The actor is a 50-year-old father of three. He complains of acute onset breathlessness...
examinerBrief: Please observe how the candidate addresses issues of acute confusion...
markscheme: 1 mark for checking the patient's alertness. 1 mark for administering oxygen...
category: Respiratory
stationName: Acute Respiratory Distress
candidateBrief: You are a junior doctor in A&E. A 50-year-old man presents with sudden respiratory distress...

The output format should look like this:

{
  "0": {
    "actorBrief": "...",
    "examinerBrief": "...",
    "markscheme": "...",
    "category": "...",
    "stationName": "...",
    "candidateBrief": "..."
  }
}

Now parse the following text and produce the JSON with exactly those keys, retaining everything:

` + text
}

// SystemPrompt is the fixed system message sent with every extraction call.
const SystemPrompt = "You are a helpful assistant that extracts OSCE station data from text and formats it as JSON."
