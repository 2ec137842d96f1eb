package main

import "github.com/poiesic/memvault/core"

// sampleConversation is ingested by `seed` when no file is given.
var sampleConversation = []core.Dialogue{
	{Speaker: "Alice", Content: "Bob, let's meet at Starbucks tomorrow at 2pm to discuss the new product.", Timestamp: "2025-11-15T14:30:00Z"},
	{Speaker: "Bob", Content: "Okay, I'll prepare the materials.", Timestamp: "2025-11-15T14:31:00Z"},
	{Speaker: "Alice", Content: "Remember to bring the market research report from last time.", Timestamp: "2025-11-15T14:32:00Z"},
	{Speaker: "Bob", Content: "Carol said the launch might slip to March because of the supplier delay.", Timestamp: "2025-11-15T14:35:00Z"},
	{Speaker: "Alice", Content: "I love pizza, so let's order some for the team after the meeting.", Timestamp: "2025-11-15T14:36:00Z"},
	{Speaker: "Carol", Content: "The Berlin office wants a demo of the prototype next Friday.", Timestamp: "2025-11-16T09:10:00Z"},
	{Speaker: "Bob", Content: "My daughter starts her robotics club on Thursday evenings.", Timestamp: "2025-11-16T09:12:00Z"},
	{Speaker: "Alice", Content: "The budget review moved to the first week of December.", Timestamp: "2025-11-16T09:15:00Z"},
	{Speaker: "Carol", Content: "I'm allergic to peanuts, please keep that in mind for the team lunch.", Timestamp: "2025-11-16T09:20:00Z"},
	{Speaker: "Bob", Content: "Dave from finance approved the new laptops for the design team.", Timestamp: "2025-11-17T11:00:00Z"},
	{Speaker: "Alice", Content: "Let's use the Lisbon hotel again for the offsite in April.", Timestamp: "2025-11-17T11:05:00Z"},
	{Speaker: "Carol", Content: "The customer in Osaka reported that the sync feature drops files over 2GB.", Timestamp: "2025-11-17T11:30:00Z"},
}
