// Package services contains the application services that sit between the
// HTTP transport and the analysis engine. AnalysisService loads assessment
// workbooks, runs the analyzer, persists snapshots and exports results;
// HealthService reports process and dependency health.
package services
