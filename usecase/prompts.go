package usecase

import (
	"context"
	"fmt"

	domainProtocol "ytmcp/domains/protocol"
	pkgError "ytmcp/pkg/error"
)

var noteStyles = map[string]string{
	"bullet":   "Use bullet points with main topics and sub-points",
	"outline":  "Use a numbered outline format with hierarchical structure",
	"markdown": "Use markdown formatting with headers, lists, and emphasis",
}

var blogTones = map[string]string{
	"professional": "formal, authoritative, and well-researched",
	"casual":       "conversational, friendly, and accessible",
	"technical":    "detailed, precise, and industry-focused",
}

func urlArgument() domainProtocol.PromptArgument {
	return domainProtocol.PromptArgument{
		Name:        "url",
		Description: "YouTube video URL",
		Required:    true,
	}
}

func (s *dispatcherService) ListPrompts(ctx context.Context) []domainProtocol.Prompt {
	return []domainProtocol.Prompt{
		{
			Name:        domainProtocol.PromptQuickSummary,
			Description: "Get a quick summary of a YouTube video",
			Arguments:   []domainProtocol.PromptArgument{urlArgument()},
		},
		{
			Name:        domainProtocol.PromptToNotes,
			Description: "Convert YouTube video to structured notes",
			Arguments: []domainProtocol.PromptArgument{
				urlArgument(),
				{Name: "style", Description: "Note style: bullet, outline, or markdown"},
			},
		},
		{
			Name:        domainProtocol.PromptExtractQuotes,
			Description: "Extract key quotes from a YouTube video",
			Arguments: []domainProtocol.PromptArgument{
				urlArgument(),
				{Name: "topic", Description: "Specific topic to focus on (optional)"},
			},
		},
		{
			Name:        domainProtocol.PromptToBlog,
			Description: "Convert YouTube video to blog post",
			Arguments: []domainProtocol.PromptArgument{
				urlArgument(),
				{Name: "tone", Description: "Blog tone: professional, casual, or technical"},
			},
		},
	}
}

func (s *dispatcherService) GetPrompt(ctx context.Context, name string, arguments map[string]string) ([]domainProtocol.PromptMessage, error) {
	url := arguments["url"]

	switch name {
	case domainProtocol.PromptQuickSummary:
		return []domainProtocol.PromptMessage{{
			Role: "user",
			Text: fmt.Sprintf("Please provide a quick summary of this YouTube video: %s\n\n"+
				"First, use the youtube_transcribe tool to get the transcript, "+
				"then provide a concise summary covering the main points.", url),
		}}, nil

	case domainProtocol.PromptToNotes:
		style, ok := noteStyles[arguments["style"]]
		if !ok {
			style = noteStyles["bullet"]
		}
		return []domainProtocol.PromptMessage{{
			Role: "user",
			Text: fmt.Sprintf("Convert this YouTube video into structured notes: %s\n\n"+
				"Instructions:\n"+
				"1. First, use youtube_transcribe to get the transcript\n"+
				"2. Create organized notes using this style: %s\n"+
				"3. Include key concepts, main points, and important details\n"+
				"4. Add timestamps for major sections", url, style),
		}}, nil

	case domainProtocol.PromptExtractQuotes:
		topicInstruction := ""
		if topic := arguments["topic"]; topic != "" {
			topicInstruction = " focusing on " + topic
		}
		return []domainProtocol.PromptMessage{{
			Role: "user",
			Text: fmt.Sprintf("Extract notable quotes from this YouTube video%s: %s\n\n"+
				"Instructions:\n"+
				"1. Use youtube_transcribe to get the full transcript\n"+
				"2. Identify the most impactful, insightful, or memorable quotes\n"+
				"3. For each quote, provide:\n"+
				"   - The exact quote\n"+
				"   - The timestamp\n"+
				"   - Brief context about why it's significant\n"+
				"4. Organize quotes thematically if possible", topicInstruction, url),
		}}, nil

	case domainProtocol.PromptToBlog:
		tone, ok := blogTones[arguments["tone"]]
		if !ok {
			tone = blogTones["professional"]
		}
		return []domainProtocol.PromptMessage{{
			Role: "user",
			Text: fmt.Sprintf("Transform this YouTube video into a blog post: %s\n\n"+
				"Blog Requirements:\n"+
				"1. First, use youtube_transcribe to get the transcript\n"+
				"2. Write in a %s tone\n"+
				"3. Structure:\n"+
				"   - Engaging introduction that hooks the reader\n"+
				"   - Clear sections with descriptive headings\n"+
				"   - Key takeaways or insights from the video\n"+
				"   - Relevant quotes with attribution\n"+
				"   - Compelling conclusion with call-to-action\n"+
				"4. Make it SEO-friendly with natural keyword usage\n"+
				"5. Length: 800-1200 words\n"+
				"6. Include a note crediting the original video", url, tone),
		}}, nil

	default:
		return nil, pkgError.NotFoundError(fmt.Sprintf("Unknown prompt: %s", name))
	}
}
