/*
Package cbio queries the cBioPortal REST API for the mutations of a cancer
cohort and ranks them for display.

A cohort is identified by a molecular profile ID and a sample list ID. The
Cohorts table lists the TCGA cohorts offered by the dashboard. Responses are
decoded into an explicit Mutation type at the API boundary; counts that the
API leaves out are represented by nil pointers rather than zero.
*/
package cbio
