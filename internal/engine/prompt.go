package engine

// LLM prompt templates — data only, no logic.

// summarizeSystemPrompt frames the model as an extractor, not an author.
const summarizeSystemPrompt = `You are a web content analyzer. You read one web page and extract only the information relevant to a user's query.
Answer in plain text. Do not invent facts that are not on the page. If the page has nothing relevant, say so in one sentence.`

// summarizePrompt asks for the query-relevant part of one page.
// Args: query, page content.
const summarizePrompt = `Query: %s

Extract the information from the page below that is relevant to the query. Keep names, numbers, versions and commands exact.

Page:
%s`

// researchPrompt is the context block injected into a chat conversation.
// Args: query, formatted sources.
const researchPrompt = `Based on the following web search results, please answer the question: '%s'

Search Results:
%s`
