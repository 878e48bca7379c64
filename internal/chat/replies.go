package chat

// Assistant reply texts. These are user-facing strings the marketplace UI
// renders verbatim.
const (
	replyNearby         = "Here are fresh crops within 10km of your location:"
	replyLocationPrompt = "Would you like to share your location to see nearby farmer crops?"
	replyRecent         = "Here are crops that were just added in the last few minutes:"
	replyCropMatch      = "I found some great options for you! Here are the available crops:"
	replyOrganic        = "Here are our certified organic crops available nearby:"
	replyHelp           = `I can help you find fresh crops, locate nearby farmers, check today's listings, or answer questions about our marketplace. Try asking me about "nearby crops" or "what's fresh today"!`

	replyLocationGranted = "Great! I can now show you crops from farmers near your location. Here are fresh crops within 10km:"
	replyLocationDenied  = "No worries! You can still browse all available crops. Would you like to see today's fresh listings instead?"
)

// quickReplies are the suggestion chips shown above the assistant input.
var quickReplies = []string{
	"Nearby crops",
	"Today's Fresh Stock",
	"My Orders",
	"Contact Support",
}

// peerReplies are canned acknowledgments used to simulate farmer responses
// in peer conversations.
var peerReplies = []string{
	"Thanks for your message! I'll check and get back to you shortly.",
	"Got it. Let me confirm what we have in stock.",
	"Sure! I'll send over the details in a bit.",
}
