// Package websearch provides search provider adapters for the web
// search fallback chain. Each provider wraps one external search API
// behind the driven.SearchProvider port and applies proactive request
// throttling so a burst of tool calls cannot exhaust an API quota.
package websearch
