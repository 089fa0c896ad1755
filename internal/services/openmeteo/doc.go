// Package openmeteo fetches a categorical daily weather summary for the
// configured coordinates. The summary feeds the generation context and the
// deterministic weather card; failures degrade to SummaryUnknown upstream
// instead of failing a run.
package openmeteo
