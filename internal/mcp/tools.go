package mcp

import "github.com/mark3labs/mcp-go/mcp"

var kindEnum = mcp.Enum("UNIT", "UNIQUE_UNIT", "BUILDING", "TECHNOLOGY")

// composeHelpTool defines the compose_help MCP tool.
var composeHelpTool = mcp.NewTool("compose_help",
	mcp.WithDescription("Compose the help popup of a tech-tree entity: heading with cost, description, and stats line."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id, e.g. unit_4, building_87, tech_93"),
	),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Entity kind"),
		kindEnum,
	),
	mcp.WithString("name",
		mcp.Description("Display name; resolved from the string table when omitted"),
	),
	mcp.WithBoolean("advanced",
		mcp.Description("Include the attack and armour class tables"),
	),
)

// highlightPathTool defines the highlight_path MCP tool.
var highlightPathTool = mcp.NewTool("highlight_path",
	mcp.WithDescription("List the prerequisite chain of a node, from the node up to its root, with the connecting edges."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id"),
	),
)

// civAvailabilityTool defines the civ_availability MCP tool.
var civAvailabilityTool = mcp.NewTool("civ_availability",
	mcp.WithDescription("Report which civilizations can use an entity. With civ set, report only that civilization."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id"),
	),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Entity kind"),
		kindEnum,
	),
	mcp.WithString("civ",
		mcp.Description("Civilization id, e.g. Britons"),
	),
)

// placeOverlayTool defines the place_overlay MCP tool.
var placeOverlayTool = mcp.NewTool("place_overlay",
	mcp.WithDescription("Compute where the detail popup of a node is drawn inside a container."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Node id used as the anchor"),
	),
	mcp.WithNumber("width", mcp.Required(), mcp.Description("Popup width")),
	mcp.WithNumber("height", mcp.Required(), mcp.Description("Popup height")),
	mcp.WithNumber("viewport_height", mcp.Description("Container height (default 800)")),
	mcp.WithNumber("scroll_x", mcp.Description("Container horizontal scroll offset")),
)

// searchEntitiesTool defines the search_entities MCP tool.
var searchEntitiesTool = mcp.NewTool("search_entities",
	mcp.WithDescription("Search entities semantically by their composed help text."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("kind",
		mcp.Description("Filter results by entity kind"),
		kindEnum,
	),
)
