package query

const intentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "property_type": {
      "type": "string",
      "enum": ["", "room", "apartment", "house", "land", "commercial", "mobile-home"]
    },
    "listing_type": {
      "type": "string",
      "enum": ["", "sale", "rent"]
    },
    "location": {
      "type": "string"
    },
    "price": {
      "type": "object",
      "properties": {
        "kind": {
          "type": "string",
          "enum": ["none", "under", "over", "between", "around"]
        },
        "min": {"type": "number", "minimum": 0},
        "max": {"type": "number", "minimum": 0},
        "target": {"type": "number", "minimum": 0},
        "currency": {"type": "string"}
      },
      "required": ["kind"],
      "additionalProperties": false
    }
  },
  "required": ["property_type", "listing_type", "location", "price"],
  "additionalProperties": false
}`

const intentPromptTemplate = `Extract the structured search intent from a property search query and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Queries may be in English or Portuguese.
- "kind" describes the price constraint: "under" uses "max", "over" uses "min", "between" uses both,
  "around" uses "target". Use "none" when the query states no price.
- A bare price-like number ("apartments 250000") means "around" that number.
- Magnitude words scale the amount: "300k" is 300000.
- "currency" is the ISO code implied by symbols or words (EUR, USD, GBP); use "EUR" when unstated.
- "location" is the place name only, without prepositions. Empty string when no place is named.
- Leave "property_type" or "listing_type" empty when the query does not state them. Never guess.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "land under 30000 near Lisbon"
Output:
{"property_type":"land","listing_type":"","location":"Lisbon","price":{"kind":"under","max":30000,"currency":"EUR"}}

Example:
Input: "T2 para arrendar em Braga entre 600 e 900 euros"
Output:
{"property_type":"apartment","listing_type":"rent","location":"Braga","price":{"kind":"between","min":600,"max":900,"currency":"EUR"}}

Example:
Input: "quiet place with a garden"
Output:
{"property_type":"","listing_type":"","location":"","price":{"kind":"none"}}`
