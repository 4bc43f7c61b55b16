package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"merchhold/adapters/excel"
	"merchhold/adapters/localfile"
	"merchhold/adapters/memory"
	"merchhold/app"
	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/ports"
)

func main() {
	var (
		loadList  = flag.String("load", "", "comma-separated spreadsheet files to load")
		query     = flag.String("search", "", "search query (identifier or name substring)")
		fieldName = flag.String("field", "identifier", "canonical field to search on")
		scope     = flag.String("scope", "hold", "search scope: hold or all")
		updateKey = flag.String("update", "", "row key to update in the linked resource")
		patchSpec = flag.String("set", "", "comma-separated field=value pairs for -update")
		kindName  = flag.String("kind", "HOLD", "resource kind: HOLD or RM")
		holdFile  = flag.String("hold-file", "", "path of the linked HOLD spreadsheet")
		rmFile    = flag.String("rm-file", "", "path of the linked RM spreadsheet")
		report    = flag.Bool("report", false, "print per-table hold summaries")
	)
	flag.Parse()

	ctx := context.Background()
	aliases := schema.NewAliasTable()
	resolver := schema.NewResolver(aliases)
	tables := memory.NewTableStore()
	profiles := memory.NewProfileStore()
	ingester := excel.NewIngester(aliases)

	if *loadList != "" {
		paths := strings.Split(*loadList, ",")
		loaded, err := ingester.IngestFiles(paths)
		if err != nil {
			fatal(err)
		}
		for _, t := range loaded {
			if err := tables.Put(ctx, t); err != nil {
				fatal(err)
			}
			fmt.Printf("loaded %s (%d rows)\n", t.Name, t.RowCount())
		}
	}

	records := app.NewRecordService(tables, profiles, resolver, 0)

	if *query != "" {
		field := schema.Field(*fieldName)
		if !field.IsValid() {
			fatal(fmt.Errorf("unknown field %q", *fieldName))
		}
		eligible := table.NameContains("hold")
		if *scope == "all" {
			eligible = table.AllTables
		}
		matches, err := records.Search(ctx, "", *query, field, eligible)
		if err != nil {
			fatal(err)
		}
		for _, m := range matches {
			fields, err := records.Reconcile(ctx, "", m)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("* %s\n", m.SourceTable)
			printFields(fields)
		}
		if len(matches) == 0 {
			fmt.Println("no matches")
		}
	}

	if *updateKey != "" {
		kind, err := parseKind(*kindName)
		if err != nil {
			fatal(err)
		}
		handles := localfile.NewStore()
		if *holdFile != "" {
			handles.Set(ctx, ports.ResourceHold, localfile.NewHandle("HOLD", *holdFile))
		}
		if *rmFile != "" {
			handles.Set(ctx, ports.ResourceRM, localfile.NewHandle("RM", *rmFile))
		}
		patch, err := parsePatch(*patchSpec)
		if err != nil {
			fatal(err)
		}

		updater := app.NewUpdaterService(handles, resolver)
		result, err := updater.Update(ctx, app.UpdateRequest{
			ResourceKind: kind,
			RowKey:       *updateKey,
			Patch:        patch,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("patched row %d of sheet %q in %s (%d fields)\n",
			result.RowNumber, result.Sheet, result.Resource, len(result.FieldsApplied))
	}

	if *report {
		reports := app.NewReportService(tables, resolver)
		summaries, err := reports.Summarize(ctx, table.AllTables)
		if err != nil {
			fatal(err)
		}
		out, _ := json.MarshalIndent(summaries, "", "  ")
		fmt.Println(string(out))
	}
}

func parseKind(raw string) (ports.ResourceKind, error) {
	switch strings.ToUpper(raw) {
	case string(ports.ResourceHold):
		return ports.ResourceHold, nil
	case string(ports.ResourceRM):
		return ports.ResourceRM, nil
	}
	return "", fmt.Errorf("kind must be HOLD or RM, got %q", raw)
}

func parsePatch(spec string) (map[schema.Field]string, error) {
	patch := make(map[schema.Field]string)
	if spec == "" {
		return patch, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad -set entry %q, want field=value", pair)
		}
		field := schema.Field(strings.TrimSpace(key))
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		patch[field] = strings.TrimSpace(value)
	}
	return patch, nil
}

func printFields(fields map[schema.Field]string) {
	for _, field := range schema.AllFields {
		if v, ok := fields[field]; ok {
			fmt.Printf("  %-22s %s\n", field.Label()+":", v)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
