package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listTopicsTool defines the list_topics MCP tool.
var listTopicsTool = mcp.NewTool("list_topics",
	mcp.WithDescription("List the topics of the notes sidebar and the note identifiers under each."),
	mcp.WithString("query",
		mcp.Description("Optional fuzzy filter over topic and note names"),
	),
)

// readNoteTool defines the read_note MCP tool.
var readNoteTool = mcp.NewTool("read_note",
	mcp.WithDescription("Read a note by identifier. An empty identifier reads the home page."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note identifier exactly as listed by list_topics, e.g. \"Smart Contracts\""),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum("markdown", "html"),
	),
)
