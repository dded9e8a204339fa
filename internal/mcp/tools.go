package mcp

import "github.com/mark3labs/mcp-go/mcp"

var saveToolDef = mcp.NewTool("entry_save",
	mcp.WithDescription("Save a new text entry. The content is compressed into the blob store and its metadata is recorded. The title defaults to the first line with leading '#' removed."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Entry content (markdown or plain text)")),
	mcp.WithString("title", mcp.Description("Optional title; overrides the derived one")),
)

var listToolDef = mcp.NewTool("entry_list",
	mcp.WithDescription("List all entries, newest first. Returns metadata only."),
)

var getToolDef = mcp.NewTool("entry_get",
	mcp.WithDescription("Get one entry's metadata by numeric id."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Entry id")),
)

var contentToolDef = mcp.NewTool("entry_content",
	mcp.WithDescription("Get an entry's text by id or exact title. When both are given, id wins. Title matches the newest entry with exactly that title."),
	mcp.WithNumber("id", mcp.Description("Entry id")),
	mcp.WithString("title", mcp.Description("Exact entry title")),
)

var updateToolDef = mcp.NewTool("entry_update",
	mcp.WithDescription("Replace an entry's content. The blob id is kept and the title is re-derived from the new text."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithString("text", mcp.Required(), mcp.Description("New content")),
)

var deleteToolDef = mcp.NewTool("entry_delete",
	mcp.WithDescription("Delete an entry and its blob."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Entry id")),
)
