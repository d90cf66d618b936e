// Package scheduling builds and converts event drafts: the editable state of
// a scheduled procedure before it is sent to the API. Times in a draft are
// wall-clock strings in the site timezone; Payload converts them to UTC.
// Study and procedure picks are remembered through a sticky.Store.
package scheduling
