package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/service"

	"github.com/spf13/cobra"
)

func (a *app) mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Combine PDF files into one document",
		Long: `Merge combines two or more PDF files in the order given.

--insert-at N=P splices the pages of the N-th file (1-based, in argument
order) in front of page index P (0-based) of the pages merged so far. An
index past the end appends the file instead.`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.withToolkit(runMerge),
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: merged_<YYYY-MM-DD>.pdf)")
	cmd.Flags().StringArray("insert-at", nil, "insertion point as FILE=PAGE, repeatable")
	return cmd
}

func runMerge(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolMerge); err != nil {
		return err
	}

	specs, _ := cmd.Flags().GetStringArray("insert-at")
	insertAt, err := parseInsertAt(specs, len(args))
	if err != nil {
		return err
	}

	uploads := make([]service.Upload, 0, len(args))
	for i, path := range args {
		u, err := readUpload(path)
		if err != nil {
			return err
		}
		if at, ok := insertAt[i]; ok {
			u.InsertAt = &at
		}
		uploads = append(uploads, u)
	}

	out, err := tk.merge.Merge(cmd.Context(), uploads)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, out, output)
}

// parseInsertAt maps 0-based file positions to insertion indexes.
func parseInsertAt(specs []string, files int) (map[int]int, error) {
	out := make(map[int]int, len(specs))
	for _, spec := range specs {
		fileStr, pageStr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --insert-at %q: want FILE=PAGE", spec)
		}
		file, err := strconv.Atoi(strings.TrimSpace(fileStr))
		if err != nil || file < 1 || file > files {
			return nil, fmt.Errorf("invalid --insert-at %q: file must be between 1 and %d", spec, files)
		}
		page, err := strconv.Atoi(strings.TrimSpace(pageStr))
		if err != nil {
			return nil, fmt.Errorf("invalid --insert-at %q: page must be a number", spec)
		}
		if page < 0 {
			return nil, fmt.Errorf("invalid --insert-at %q: %w", spec, domain.ErrInvalidInsertIndex)
		}
		out[file-1] = page
	}
	return out, nil
}

func (a *app) splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Cut a PDF into several documents, zipped",
		Long: `Split writes a ZIP archive holding one PDF per page (--mode all) or
one PDF per range (--mode range --ranges "1-3, 5, 8-10"). Ranges outside
the document are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withToolkit(runSplit),
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: split_pdfs.zip)")
	cmd.Flags().String("mode", "all", "split mode: all or range")
	cmd.Flags().String("ranges", "", "page ranges for range mode")
	return cmd
}

func runSplit(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolSplit); err != nil {
		return err
	}
	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := domain.ParseSplitMode(modeStr)
	if err != nil {
		return err
	}
	ranges, _ := cmd.Flags().GetString("ranges")

	u, err := readUpload(args[0])
	if err != nil {
		return err
	}
	out, err := tk.tools.Split(cmd.Context(), u, mode, ranges)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) compressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Reduce the size of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  a.withToolkit(runCompress),
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: compressed_<name>)")
	cmd.Flags().String("level", "medium", "compression level: low, medium or high")
	return cmd
}

func runCompress(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolCompress); err != nil {
		return err
	}
	levelStr, _ := cmd.Flags().GetString("level")
	level, err := domain.ParseCompressionLevel(levelStr)
	if err != nil {
		return err
	}

	u, err := readUpload(args[0])
	if err != nil {
		return err
	}
	out, err := tk.tools.Compress(cmd.Context(), u, level)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) watermarkCmd() *cobra.Command {
	defaults := domain.DefaultWatermarkSpec()
	cmd := &cobra.Command{
		Use:   "watermark [file]",
		Short: "Stamp text or an image on every page",
		Long: `Watermark stamps --text, or the image given with --image, on every
page. Positions are center, topLeft, topRight, bottomLeft and bottomRight.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withToolkit(runWatermark),
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default: watermarked-<name>)")
	f.String("text", "", "watermark text")
	f.String("image", "", "PNG or JPEG file to use instead of text")
	f.String("position", string(defaults.Position), "where to place the watermark")
	f.Int("opacity", defaults.Opacity, "opacity in percent, 10 to 100")
	f.Int("rotation", defaults.Rotation, "rotation in degrees, -180 to 180")
	f.Int("font-size", defaults.FontSize, "font size in points, 12 to 120")
	f.Int("image-size", defaults.ImageSize, "image scale in percent")
	return cmd
}

func runWatermark(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolWatermark); err != nil {
		return err
	}
	f := cmd.Flags()
	spec := domain.DefaultWatermarkSpec()
	spec.Text, _ = f.GetString("text")
	position, _ := f.GetString("position")
	spec.Position = domain.WatermarkPosition(position)
	spec.Opacity, _ = f.GetInt("opacity")
	spec.Rotation, _ = f.GetInt("rotation")
	spec.FontSize, _ = f.GetInt("font-size")
	spec.ImageSize, _ = f.GetInt("image-size")

	if imagePath, _ := f.GetString("image"); imagePath != "" {
		img, err := os.ReadFile(imagePath)
		if err != nil {
			return err
		}
		spec.Type = domain.WatermarkImage
		spec.Image = img
	}

	u, err := readUpload(args[0])
	if err != nil {
		return err
	}
	out, err := tk.tools.Watermark(cmd.Context(), u, spec)
	if err != nil {
		return err
	}
	output, _ := f.GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) protectCmd() *cobra.Command {
	defaults := domain.DefaultPermissions()
	cmd := &cobra.Command{
		Use:   "protect [file]",
		Short: "Encrypt a PDF with a password",
		Long: `Protect encrypts the document. Readers need --open-password to open it;
--owner-password unlocks the restricted permissions and defaults to the open
password.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withToolkit(runProtect),
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default: protected_<name>)")
	f.String("open-password", "", "password required to open the document")
	f.String("owner-password", "", "password that lifts the restrictions")
	f.Bool("allow-printing", defaults.Printing, "allow printing")
	f.Bool("allow-modifying", defaults.Modifying, "allow modifying")
	f.Bool("allow-copying", defaults.Copying, "allow copying text and images")
	f.Bool("allow-annotating", defaults.Annotating, "allow adding annotations")
	return cmd
}

func runProtect(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolProtect); err != nil {
		return err
	}
	f := cmd.Flags()
	var opts domain.ProtectOptions
	opts.OpenPassword, _ = f.GetString("open-password")
	opts.OwnerPassword, _ = f.GetString("owner-password")
	opts.Permissions.Printing, _ = f.GetBool("allow-printing")
	opts.Permissions.Modifying, _ = f.GetBool("allow-modifying")
	opts.Permissions.Copying, _ = f.GetBool("allow-copying")
	opts.Permissions.Annotating, _ = f.GetBool("allow-annotating")

	u, err := readUpload(args[0])
	if err != nil {
		return err
	}
	out, err := tk.tools.Protect(cmd.Context(), u, opts)
	if err != nil {
		return err
	}
	output, _ := f.GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a PDF to another format",
		Long: `Convert extracts the document into another format. Only text is
supported; word, excel and powerpoint are recognized but rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withToolkit(runConvert),
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: <name>.txt)")
	cmd.Flags().String("format", "text", "target format")
	return cmd
}

func runConvert(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolConvert); err != nil {
		return err
	}
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := domain.ParseConvertFormat(formatStr)
	if err != nil {
		return err
	}

	u, err := readUpload(args[0])
	if err != nil {
		return err
	}
	out, err := tk.tools.Convert(cmd.Context(), u, format)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) htmlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "html",
		Short: "Render an HTML file or a web page to PDF",
		Long: `HTML renders --file or --url to PDF with a headless browser. Set
--chrome-path, or --browser-auto-download to fetch a browser on first use.`,
		Args: cobra.NoArgs,
		RunE: a.withToolkit(runHTML),
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: converted.pdf)")
	cmd.Flags().String("file", "", "HTML file to render")
	cmd.Flags().String("url", "", "http or https page to render")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	cmd.MarkFlagsOneRequired("file", "url")
	return cmd
}

func runHTML(cmd *cobra.Command, tk *toolkit, args []string) error {
	if err := tk.require(domain.ToolConvert); err != nil {
		return err
	}
	var html string
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		html = string(data)
	}
	rawURL, _ := cmd.Flags().GetString("url")

	out, err := tk.tools.ConvertHTML(cmd.Context(), html, rawURL)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, out, output)
}

func (a *app) infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [files...]",
		Short: "Show page count, version and page sizes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.withToolkit(runInfo),
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func runInfo(cmd *cobra.Command, tk *toolkit, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	for _, path := range args {
		u, err := readUpload(path)
		if err != nil {
			return err
		}
		info, err := tk.tools.Info(cmd.Context(), u)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				File string `json:"file"`
				*domain.DocumentInfo
			}{path, info}); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(w, "%s\n", path)
		fmt.Fprintf(w, "  pages:     %d\n", info.PageCount)
		fmt.Fprintf(w, "  version:   %s\n", info.Version)
		fmt.Fprintf(w, "  encrypted: %t\n", info.Encrypted)
		fmt.Fprintf(w, "  size:      %d bytes\n", info.Size)
		for i, size := range info.PageSizes {
			fmt.Fprintf(w, "  page %d:    %.0f x %.0f pt\n", i+1, size.Width, size.Height)
		}
	}
	return nil
}

func (a *app) toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools [query]",
		Short: "List the tool catalog, or search it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.withToolkit(runTools),
	}
	cmd.Flags().String("category", "", "only list tools of this category")
	cmd.Flags().Bool("active", false, "only list active tools")
	return cmd
}

func runTools(cmd *cobra.Command, tk *toolkit, args []string) error {
	var tools []domain.ToolDescriptor
	if len(args) == 1 {
		found, err := tk.catalog.Search(args[0], 0)
		if err != nil {
			return err
		}
		tools = found
	} else {
		category, _ := cmd.Flags().GetString("category")
		active, _ := cmd.Flags().GetBool("active")
		tools = tk.catalog.List(domain.ToolFilter{Category: category, ActiveOnly: active})
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tACTIVE\tDESCRIPTION")
	for _, t := range tools {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", t.ID, t.Category, t.Active, t.SmallDescription)
	}
	return tw.Flush()
}
